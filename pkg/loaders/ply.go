package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// ErrInvalidPLY is returned for malformed or unsupported PLY data
var ErrInvalidPLY = errors.New("invalid PLY data")

const (
	// maxPreallocate caps slice capacity taken from header counts; larger
	// meshes grow through append as their data is actually read
	maxPreallocate = 1 << 20
	// maxFaceVertices bounds the vertex list of a single face
	maxFaceVertices = 1 << 16
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format      string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version     string // Usually "1.0"
	VertexCount int
	FaceCount   int
	VertexProps []PLYProperty
	FaceProps   []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the mesh loaded from a PLY file
type PLYData struct {
	Vertices []core.Vec3 // Vertex positions (x, y, z)
	Faces    []int       // Triangle indices (3 per triangle)
	Colors   []core.Vec3 // Per-vertex colors normalized to [0,1]; empty if not present
}

// TriangleCount returns the number of triangles in the mesh
func (d *PLYData) TriangleCount() int {
	return len(d.Faces) / 3
}

// Triangles converts the mesh into scene triangles. Each vertex is scaled
// then offset. Faces take the average of their vertex colors when the file
// has colors, and color otherwise.
func (d *PLYData) Triangles(offset core.Vec3, scale float64, color core.Vec3, shader material.Shader) []geometry.Shape {
	transform := func(v core.Vec3) core.Vec3 {
		return v.Multiply(scale).Add(offset)
	}

	shapes := make([]geometry.Shape, 0, d.TriangleCount())
	for i := 0; i+2 < len(d.Faces); i += 3 {
		a, b, c := d.Faces[i], d.Faces[i+1], d.Faces[i+2]

		faceColor := color
		if len(d.Colors) > 0 {
			faceColor = d.Colors[a].Add(d.Colors[b]).Add(d.Colors[c]).Multiply(1.0 / 3.0)
		}

		shapes = append(shapes, geometry.NewTriangle(
			transform(d.Vertices[a]), transform(d.Vertices[b]), transform(d.Vertices[c]),
			faceColor, shader))
	}
	return shapes
}

// LoadPLY loads a PLY file
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	return ReadPLY(file)
}

// ReadPLY parses ASCII or binary PLY content. Polygons with more than three
// vertices are split into triangle fans.
func ReadPLY(r io.Reader) (*PLYData, error) {
	reader := bufio.NewReader(r)

	header, err := parsePLYHeader(reader)
	if err != nil {
		return nil, err
	}

	var values plyValueReader
	switch header.Format {
	case "binary_little_endian":
		values = &binaryValueReader{r: reader, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{r: reader, order: binary.BigEndian}
	case "ascii":
		scanner := bufio.NewScanner(reader)
		scanner.Split(bufio.ScanWords)
		values = &asciiValueReader{scanner: scanner}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidPLY, header.Format)
	}

	data, err := readPLYBody(values, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPLY, err)
	}
	return data, nil
}

// parsePLYHeader consumes the header through end_header
func parsePLYHeader(reader *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var currentElement string

	for lineNum := 1; ; lineNum++ {
		raw, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || raw == "") {
			return nil, fmt.Errorf("%w: header ended before end_header", ErrInvalidPLY)
		}
		line := strings.TrimSpace(raw)

		if lineNum == 1 {
			if line != "ply" {
				return nil, fmt.Errorf("%w: missing ply magic", ErrInvalidPLY)
			}
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: line %d: incomplete format", ErrInvalidPLY, lineNum)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: line %d: incomplete element", ErrInvalidPLY, lineNum)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: line %d: invalid element count %q", ErrInvalidPLY, lineNum, parts[2])
			}

			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			default:
				if count > 0 {
					return nil, fmt.Errorf("%w: unsupported element %q", ErrInvalidPLY, currentElement)
				}
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidPLY, lineNum, err)
			}

			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		default:
			return nil, fmt.Errorf("%w: line %d: unknown header keyword %q", ErrInvalidPLY, lineNum, parts[0])
		}
	}

	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("invalid property definition")
	}

	prop := PLYProperty{}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("invalid list property definition")
		}
		prop.IsList = true
		prop.ListType = parts[1]
		prop.DataType = parts[2]
		prop.Name = parts[3]
	} else {
		prop.Type = parts[0]
		prop.Name = parts[1]
	}

	if getTypeSize(prop.Type) == 0 && getTypeSize(prop.DataType) == 0 {
		return PLYProperty{}, fmt.Errorf("unsupported data type in %q", strings.Join(parts, " "))
	}
	return prop, nil
}

// readPLYBody reads the vertex and face elements described by header
func readPLYBody(values plyValueReader, header *PLYHeader) (*PLYData, error) {
	x, y, z := propIndex(header.VertexProps, "x"), propIndex(header.VertexProps, "y"), propIndex(header.VertexProps, "z")
	if x < 0 || y < 0 || z < 0 {
		return nil, fmt.Errorf("vertex element needs x, y and z")
	}
	red := propIndex(header.VertexProps, "red", "r")
	green := propIndex(header.VertexProps, "green", "g")
	blue := propIndex(header.VertexProps, "blue", "b")
	hasColors := red >= 0 && green >= 0 && blue >= 0

	data := &PLYData{
		Vertices: make([]core.Vec3, 0, min(header.VertexCount, maxPreallocate)),
		Faces:    make([]int, 0, min(header.FaceCount, maxPreallocate/3)*3),
	}
	if hasColors {
		data.Colors = make([]core.Vec3, 0, min(header.VertexCount, maxPreallocate))
	}

	row := make([]float64, len(header.VertexProps))
	for i := 0; i < header.VertexCount; i++ {
		for j, prop := range header.VertexProps {
			if prop.IsList {
				if err := skipList(values, prop); err != nil {
					return nil, fmt.Errorf("vertex %d: %v", i, err)
				}
				continue
			}
			v, err := values.next(prop.Type)
			if err != nil {
				return nil, fmt.Errorf("vertex %d property %s: %v", i, prop.Name, err)
			}
			row[j] = v
		}

		data.Vertices = append(data.Vertices, core.NewVec3(row[x], row[y], row[z]))
		if hasColors {
			data.Colors = append(data.Colors, core.NewVec3(
				colorChannel(row[red], header.VertexProps[red].Type),
				colorChannel(row[green], header.VertexProps[green].Type),
				colorChannel(row[blue], header.VertexProps[blue].Type),
			))
		}
	}

	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipProperty(values, prop); err != nil {
					return nil, fmt.Errorf("face %d property %s: %v", i, prop.Name, err)
				}
				continue
			}

			indices, err := readIndexList(values, prop, header.VertexCount)
			if err != nil {
				return nil, fmt.Errorf("face %d: %v", i, err)
			}

			// Fan triangulation around the first vertex
			for k := 1; k+1 < len(indices); k++ {
				data.Faces = append(data.Faces, indices[0], indices[k], indices[k+1])
			}
		}
	}

	return data, nil
}

// readIndexList reads one face's vertex indices and checks them against vertexCount
func readIndexList(values plyValueReader, prop PLYProperty, vertexCount int) ([]int, error) {
	count, err := values.next(prop.ListType)
	if err != nil {
		return nil, fmt.Errorf("vertex count: %v", err)
	}
	if count < 3 || math.IsNaN(count) {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %v", count)
	}
	if count > maxFaceVertices || count > float64(vertexCount) {
		return nil, fmt.Errorf("face lists %v vertices, mesh has %d", count, vertexCount)
	}

	indices := make([]int, int(count))
	for k := range indices {
		v, err := values.next(prop.DataType)
		if err != nil {
			return nil, fmt.Errorf("vertex index: %v", err)
		}
		index := int(v)
		if index < 0 || index >= vertexCount {
			return nil, fmt.Errorf("vertex index %d out of range [0,%d)", index, vertexCount)
		}
		indices[k] = index
	}
	return indices, nil
}

func skipProperty(values plyValueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(values, prop)
	}
	_, err := values.next(prop.Type)
	return err
}

func skipList(values plyValueReader, prop PLYProperty) error {
	count, err := values.next(prop.ListType)
	if err != nil {
		return err
	}
	if count < 0 || count > maxFaceVertices || math.IsNaN(count) {
		return fmt.Errorf("list length %v out of range", count)
	}
	for i := 0; i < int(count); i++ {
		if _, err := values.next(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// propIndex returns the index of the first property matching any name, or -1
func propIndex(props []PLYProperty, names ...string) int {
	for i, prop := range props {
		if prop.IsList {
			continue
		}
		for _, name := range names {
			if prop.Name == name {
				return i
			}
		}
	}
	return -1
}

// colorChannel maps integer channels from 0-255 to 0-1; float channels pass through
func colorChannel(v float64, dataType string) float64 {
	switch dataType {
	case "uchar", "uint8":
		return v / 255.0
	default:
		return v
	}
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}

// plyValueReader yields successive scalar values from the PLY body
type plyValueReader interface {
	next(dataType string) (float64, error)
}

type binaryValueReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryValueReader) next(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("unsupported data type: %s", dataType)
	}
	data := b.buf[:size]
	if _, err := io.ReadFull(b.r, data); err != nil {
		return 0, err
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(data))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(data)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(data))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(data)), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(data))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(data)), nil
	case "char", "int8":
		return float64(int8(data[0])), nil
	default: // uchar, uint8
		return float64(data[0]), nil
	}
}

type asciiValueReader struct {
	scanner *bufio.Scanner
}

func (a *asciiValueReader) next(dataType string) (float64, error) {
	if !a.scanner.Scan() {
		if err := a.scanner.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	v, err := strconv.ParseFloat(a.scanner.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", dataType, a.scanner.Text())
	}
	return v, nil
}
