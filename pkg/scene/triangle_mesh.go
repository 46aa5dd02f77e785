package scene

import (
	"math"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
)

// NewTriangleMeshScene creates a scene showcasing triangle geometry
func NewTriangleMeshScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	defaultCameraConfig := geometry.CameraConfig{
		Center: core.NewVec3(0, 2, 6), // Position camera to see the meshes
		LookAt: core.NewVec3(0, 1, 0), // Look at the center of the scene
		Up:     core.NewVec3(0, 1, 0),
		Width:  600,
		Height: 338,
		VFov:   45.0,
	}

	cameraConfig := defaultCameraConfig
	if len(cameraOverrides) > 0 {
		cameraConfig = geometry.MergeCameraConfig(defaultCameraConfig, cameraOverrides[0])
	}

	s := NewScene(cameraConfig, SamplingConfig{
		SamplesPerAxis: 3,
		MaxDepth:       8,
		Jitter:         true,
	})

	// Main overhead light and a cool fill light
	s.AddPointLight(core.NewVec3(2, 6, 3), core.NewVec3(1.0, 0.92, 0.83), 1.0)
	s.AddPointLight(core.NewVec3(-3, 4, 2), core.NewVec3(0.75, 0.87, 1.0), 0.5)

	ground := geometry.NewPlane(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(0.7, 0.7, 0.7),
		material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7)),
	)
	s.Shapes = append(s.Shapes, ground)

	red := core.NewVec3(0.8, 0.2, 0.2)
	blue := core.NewVec3(0.2, 0.3, 0.8)

	// Box rotated to show multiple faces
	s.Shapes = append(s.Shapes, createBoxMesh(
		core.NewVec3(-2, 0.5, 0), // center (sitting on ground)
		core.NewVec3(1, 1, 1),    // size
		math.Pi/6,                // rotation around Y
		red,
		material.NewBlinnPhong(red, core.NewVec3(0.4, 0.4, 0.4), 32, cameraConfig.Center),
	)...)

	// Pyramid rotated around Y-axis to show it's actually a pyramid
	s.Shapes = append(s.Shapes, createPyramidMesh(
		core.NewVec3(0, 1, 0), // center
		1.5,                   // base size
		2.0,                   // height
		math.Pi/4,             // rotation around Y
		blue,
		material.NewLambertian(blue),
	)...)

	// Mirrored icosahedron
	s.Shapes = append(s.Shapes, createIcosahedronMesh(
		core.NewVec3(2, 0.8, 0), // center (sitting on ground)
		0.8,                     // radius
		math.Pi/3,               // rotation around Y
		core.NewVec3(0.8, 0.6, 0.2),
		material.NewMirror(),
	)...)

	return s
}

// meshTriangles builds one triangle per index triple in faces, rotating every
// vertex by angleY radians around the vertical axis through center
func meshTriangles(vertices []core.Vec3, faces []int, center core.Vec3, angleY float64, color core.Vec3, shader material.Shader) []geometry.Shape {
	rotated := make([]core.Vec3, len(vertices))
	sin, cos := math.Sincos(angleY)
	for i, v := range vertices {
		local := v.Subtract(center)
		rotated[i] = center.Add(core.NewVec3(
			local.X*cos+local.Z*sin,
			local.Y,
			-local.X*sin+local.Z*cos,
		))
	}

	shapes := make([]geometry.Shape, 0, len(faces)/3)
	for i := 0; i+2 < len(faces); i += 3 {
		shapes = append(shapes, geometry.NewTriangle(
			rotated[faces[i]], rotated[faces[i+1]], rotated[faces[i+2]], color, shader))
	}
	return shapes
}

// createBoxMesh creates the 12 triangles of a box
func createBoxMesh(center, size core.Vec3, angleY float64, color core.Vec3, shader material.Shader) []geometry.Shape {
	halfSize := size.Multiply(0.5)
	vertices := []core.Vec3{
		center.Add(core.NewVec3(-halfSize.X, -halfSize.Y, -halfSize.Z)), // 0: left-bottom-back
		center.Add(core.NewVec3(+halfSize.X, -halfSize.Y, -halfSize.Z)), // 1: right-bottom-back
		center.Add(core.NewVec3(+halfSize.X, +halfSize.Y, -halfSize.Z)), // 2: right-top-back
		center.Add(core.NewVec3(-halfSize.X, +halfSize.Y, -halfSize.Z)), // 3: left-top-back
		center.Add(core.NewVec3(-halfSize.X, -halfSize.Y, +halfSize.Z)), // 4: left-bottom-front
		center.Add(core.NewVec3(+halfSize.X, -halfSize.Y, +halfSize.Z)), // 5: right-bottom-front
		center.Add(core.NewVec3(+halfSize.X, +halfSize.Y, +halfSize.Z)), // 6: right-top-front
		center.Add(core.NewVec3(-halfSize.X, +halfSize.Y, +halfSize.Z)), // 7: left-top-front
	}

	// Two triangles per face, wound so normals point outward
	faces := []int{
		0, 2, 1, 0, 3, 2, // back (Z-)
		4, 5, 6, 4, 6, 7, // front (Z+)
		0, 4, 7, 0, 7, 3, // left (X-)
		1, 2, 6, 1, 6, 5, // right (X+)
		0, 1, 5, 0, 5, 4, // bottom (Y-)
		3, 7, 6, 3, 6, 2, // top (Y+)
	}

	return meshTriangles(vertices, faces, center, angleY, color, shader)
}

// createPyramidMesh creates a square-based pyramid
func createPyramidMesh(center core.Vec3, baseSize, height float64, angleY float64, color core.Vec3, shader material.Shader) []geometry.Shape {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	vertices := []core.Vec3{
		center.Add(core.NewVec3(-halfBase, -halfHeight, -halfBase)), // 0: left-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, -halfBase)), // 1: right-back
		center.Add(core.NewVec3(+halfBase, -halfHeight, +halfBase)), // 2: right-front
		center.Add(core.NewVec3(-halfBase, -halfHeight, +halfBase)), // 3: left-front
		center.Add(core.NewVec3(0, +halfHeight, 0)),                 // 4: apex
	}

	faces := []int{
		0, 1, 2, 0, 2, 3, // base
		0, 4, 1, // back
		1, 4, 2, // right
		2, 4, 3, // front
		3, 4, 0, // left
	}

	return meshTriangles(vertices, faces, center, angleY, color, shader)
}

// createIcosahedronMesh creates a regular icosahedron inscribed in a sphere of the given radius
func createIcosahedronMesh(center core.Vec3, radius float64, angleY float64, color core.Vec3, shader material.Shader) []geometry.Shape {
	phi := (1.0 + math.Sqrt(5)) / 2.0
	scale := radius / math.Sqrt(1+phi*phi)

	corners := []core.Vec3{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}
	vertices := make([]core.Vec3, len(corners))
	for i, c := range corners {
		vertices[i] = center.Add(c.Multiply(scale))
	}

	faces := []int{
		// 5 faces around point 0
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		// 5 adjacent faces
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		// 5 faces around point 3
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		// 5 adjacent faces
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	return meshTriangles(vertices, faces, center, angleY, color, shader)
}
