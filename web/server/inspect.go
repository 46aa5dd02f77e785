package server

import (
	"fmt"
	"math"
	"net/http"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	ShapeIndex   int                    `json:"shapeIndex"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult contains the hit record and shape found by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord material.HitRecord
	Shape     geometry.Shape
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// inspectPixel casts the camera ray through the center of pixel (x, y)
func inspectPixel(sceneObj *scene.Scene, x, y int) InspectResult {
	ray := sceneObj.Camera.GetRay(float64(x)+0.5, float64(y)+0.5)

	var hit material.HitRecord
	if !sceneObj.ClosestHit(ray, material.ShadowEpsilon, math.Inf(1), &hit) {
		return InspectResult{}
	}

	return InspectResult{
		Hit:       true,
		HitRecord: hit,
		Shape:     sceneObj.GetShape(hit.ShapeIndex),
	}
}

// extractMaterialInfo describes a shader and its parameters
func extractMaterialInfo(shader material.Shader, shapeColor core.Vec3) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := shader.(type) {
	case *material.Lambertian:
		albedo := m.Color
		if m.UseShapeColor {
			albedo = shapeColor
		}
		properties["albedo"] = vecArray(albedo)
		properties["color"] = hexColor(albedo)
		properties["useShapeColor"] = m.UseShapeColor
		return "lambertian", properties

	case *material.BlinnPhong:
		properties["diffuse"] = vecArray(m.Diffuse)
		properties["specular"] = vecArray(m.Specular)
		properties["shininess"] = m.Shininess
		properties["color"] = hexColor(m.Diffuse)
		return "blinn_phong", properties

	case *material.Mirror:
		properties["color"] = "#ffffff"
		return "mirror", properties

	case *material.Diffuse:
		properties["reflectance"] = vecArray(m.Reflectance)
		properties["color"] = hexColor(m.Reflectance)
		return "diffuse", properties

	case *material.Normal:
		return "normal", properties

	case nil:
		// The tracer shades these with surface normals
		return "none", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo describes a shape and its parameters
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Triangle:
		properties["vertices"] = [][3]float64{vecArray(geom.V0), vecArray(geom.V1), vecArray(geom.V2)}
		properties["normal"] = vecArray(geom.GetNormal())
		return "triangle", properties

	case *geometry.Plane:
		properties["point"] = vecArray(geom.Point)
		properties["normal"] = vecArray(geom.Normal)
		return "plane", properties

	default:
		return "unknown", properties
	}
}

// handleInspect reports what the camera ray through a pixel hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	query := r.URL.Query()
	if query.Get("x") == "" || query.Get("y") == "" {
		writeError(w, http.StatusBadRequest, "x and y are required")
		return
	}
	pixelX, err := parseIntParam(query, "x", 0, 0, req.Width-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds: "+err.Error())
		return
	}
	pixelY, err := parseIntParam(query, "y", 0, 0, req.Height-1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds: "+err.Error())
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeSceneError(w, req.Scene, err)
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		s.metrics.InspectsTotal.WithLabelValues("false").Inc()
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, ShapeIndex: -1})
		return
	}
	s.metrics.InspectsTotal.WithLabelValues("true").Inc()

	hit := result.HitRecord
	materialType, materialProps := extractMaterialInfo(hit.Material, hit.Color)
	geometryType, geometryProps := extractGeometryInfo(result.Shape)

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		ShapeIndex:   hit.ShapeIndex,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
