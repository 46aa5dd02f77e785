package integrator

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/df07/go-recursive-raytracer/pkg/geometry"
	"github.com/df07/go-recursive-raytracer/pkg/material"
	"github.com/df07/go-recursive-raytracer/pkg/scene"
)

// createTestScene creates an empty scene with a blue-to-white sky
func createTestScene(shapes ...geometry.Shape) *scene.Scene {
	s := scene.NewScene(geometry.CameraConfig{}, scene.SamplingConfig{
		Width:          8,
		Height:         8,
		SamplesPerAxis: 1,
		MaxDepth:       10,
	})
	s.TopColor = core.NewVec3(0.5, 0.7, 1.0)
	s.BottomColor = core.NewVec3(1.0, 1.0, 1.0)
	s.Shapes = append(s.Shapes, shapes...)
	return s
}

func assertColor(t *testing.T, label string, got, expected core.Vec3) {
	t.Helper()
	if got.Subtract(expected).Length() > 1e-9 {
		t.Errorf("%s: expected %v, got %v", label, expected, got)
	}
}

func TestTrace_DepthTermination(t *testing.T) {
	sc := createTestScene(geometry.NewSphere(core.NewVec3(0, 0, -5), 1, core.Vec3{}, material.NewNormal()))
	rt := NewRayTracingIntegrator(sc)
	random := rand.New(rand.NewSource(42))

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	for _, depth := range []int{0, -1, -100} {
		if color := rt.Trace(ray, depth, random); color != (core.Vec3{}) {
			t.Errorf("Expected black for depth %d, got %v", depth, color)
		}
	}

	// Escaping rays are black too once depth is exhausted
	sky := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	if color := rt.Trace(sky, 0, random); color != (core.Vec3{}) {
		t.Errorf("Expected black for exhausted miss, got %v", color)
	}
}

func TestTrace_MissReturnsBackground(t *testing.T) {
	sc := createTestScene()
	rt := NewRayTracingIntegrator(sc)

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"up", core.NewVec3(0, 1, 0), sc.TopColor},
		{"down", core.NewVec3(0, -1, 0), sc.BottomColor},
		{"horizon", core.NewVec3(0, 0, -1), core.NewVec3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color := rt.Trace(core.NewRay(core.Vec3{}, tt.direction), 1, nil)
			assertColor(t, "background", color, tt.expected)
		})
	}
}

func TestTrace_NilShaderFallsBackToNormal(t *testing.T) {
	sc := createTestScene(geometry.NewSphere(core.NewVec3(0, 0, -5), 1, core.NewVec3(1, 0, 0), nil))
	rt := NewRayTracingIntegrator(sc)

	color := rt.Trace(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 1, nil)
	assertColor(t, "fallback", color, core.NewVec3(0.5, 0.5, 1.0))
}

func TestTrace_NearestSphereColor(t *testing.T) {
	red := core.NewVec3(1, 0, 0)
	blue := core.NewVec3(0, 0, 1)
	sc := createTestScene(
		geometry.NewSphere(core.NewVec3(0, 0, -6), 2, blue, material.NewShapeColorLambertian()),
		geometry.NewSphere(core.NewVec3(0, 0, -4), 1.5, red, material.NewShapeColorLambertian()),
	)
	sc.AddPointLight(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), 1)
	rt := NewRayTracingIntegrator(sc)

	color := rt.Trace(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), 1, nil)
	assertColor(t, "nearest sphere", color, red)
}

func TestMirror_ThroughTracer(t *testing.T) {
	mirrorFloor := geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.Vec3{}, material.NewMirror())
	sc := createTestScene(mirrorFloor)
	rt := NewRayTracingIntegrator(sc)

	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, -1, 0))
	expected := sc.Background(core.NewRay(core.Vec3{}, core.NewVec3(1, 1, 0)))

	var hit material.HitRecord
	if !sc.ClosestHit(ray, MinT, math.Inf(1), &hit) {
		t.Fatal("Expected ray to hit the mirror")
	}

	// Shader level
	mirror := material.NewMirror()
	assertColor(t, "mirror depth 0", mirror.Shade(ray, &hit, rt, 0, nil), core.Vec3{})
	assertColor(t, "mirror depth 1", mirror.Shade(ray, &hit, rt, 1, nil), expected)

	// Tracer level: a primary ray spends one level on the hit itself
	assertColor(t, "trace depth 1", rt.Trace(ray, 1, nil), core.Vec3{})
	assertColor(t, "trace depth 2", rt.Trace(ray, 2, nil), expected)
}

func TestMirror_FacingMirrorsTerminate(t *testing.T) {
	floor := geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.Vec3{}, material.NewMirror())
	ceiling := geometry.NewPlane(core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0), core.Vec3{}, material.NewMirror())
	rt := NewRayTracingIntegrator(createTestScene(floor, ceiling))

	// A vertical ray bounces until the depth budget runs out
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	for _, depth := range []int{1, 2, 10, MaxSupportedDepth} {
		if color := rt.Trace(ray, depth, nil); color != (core.Vec3{}) {
			t.Errorf("Expected black between facing mirrors at depth %d, got %v", depth, color)
		}
	}
}

func TestShadow_Occlusion(t *testing.T) {
	gray := core.NewVec3(0.5, 0.5, 0.5)
	newFloor := func() geometry.Shape {
		return geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), gray, material.NewLambertian(gray))
	}
	ray := core.NewRay(core.NewVec3(3, 3, 0), core.NewVec3(-1, -1, 0))

	unblocked := createTestScene(newFloor())
	unblocked.AddPointLight(core.NewVec3(0, 5, 0), core.NewVec3(1, 1, 1), 1)
	lit := NewRayTracingIntegrator(unblocked).Trace(ray, 1, nil)
	assertColor(t, "unblocked", lit, gray)

	blocked := createTestScene(newFloor(), geometry.NewSphere(core.NewVec3(0, 2.5, 0), 0.5, core.Vec3{}, nil))
	blocked.AddPointLight(core.NewVec3(0, 5, 0), core.NewVec3(1, 1, 1), 1)
	dark := NewRayTracingIntegrator(blocked).Trace(ray, 1, nil)
	assertColor(t, "blocked", dark, core.Vec3{})

	// A second, unblocked light still contributes on its own
	blocked.AddPointLight(core.NewVec3(0, 5, 4), core.NewVec3(1, 1, 1), 1)
	partial := NewRayTracingIntegrator(blocked).Trace(ray, 1, nil)
	if partial.X <= 0 || partial.X >= lit.X+1e-9 {
		t.Errorf("Expected partial lighting in (0, %f], got %v", lit.X, partial)
	}
}

func TestDiffuse_EnergyBound(t *testing.T) {
	reflectance := core.NewVec3(0.8, 0.5, 0.2)
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -3), 1, core.Vec3{}, material.NewDiffuse(reflectance))
	floor := geometry.NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), core.Vec3{}, material.NewDiffuse(core.NewVec3(0.9, 0.9, 0.9)))
	sc := createTestScene(sphere, floor)
	rt := NewRayTracingIntegrator(sc)
	random := rand.New(rand.NewSource(42))

	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	for i := 0; i < 500; i++ {
		color := rt.Trace(ray, 6, random)
		if color.X > reflectance.X+1e-12 || color.Y > reflectance.Y+1e-12 || color.Z > reflectance.Z+1e-12 {
			t.Fatalf("Sample %d amplified energy: %v exceeds reflectance %v", i, color, reflectance)
		}
		if color.X < 0 || color.Y < 0 || color.Z < 0 {
			t.Fatalf("Sample %d has negative color %v", i, color)
		}
	}
}

func TestTrace_ConcurrentDeterminism(t *testing.T) {
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -3), 1, core.Vec3{}, material.NewDiffuse(core.NewVec3(0.7, 0.7, 0.7)))
	rt := NewRayTracingIntegrator(createTestScene(sphere))
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	render := func(seed int64) []core.Vec3 {
		random := rand.New(rand.NewSource(seed))
		colors := make([]core.Vec3, 50)
		for i := range colors {
			colors[i] = rt.RayColor(ray, random)
		}
		return colors
	}

	const workers = 8
	results := make([][]core.Vec3, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			results[w] = render(int64(w))
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		sequential := render(int64(w))
		for i := range sequential {
			if sequential[i] != results[w][i] {
				t.Fatalf("Worker %d sample %d: concurrent %v differs from sequential %v", w, i, results[w][i], sequential[i])
			}
		}
	}
}

func TestClampDepth(t *testing.T) {
	tests := []struct {
		requested int
		expected  int
	}{
		{-1, DefaultMaxDepth},
		{0, DefaultMaxDepth},
		{1, 1},
		{50, 50},
		{MaxSupportedDepth, MaxSupportedDepth},
		{MaxSupportedDepth + 1, MaxSupportedDepth},
	}

	for _, tt := range tests {
		if got := ClampDepth(tt.requested); got != tt.expected {
			t.Errorf("ClampDepth(%d) = %d, want %d", tt.requested, got, tt.expected)
		}
	}

	sc := createTestScene()
	sc.SamplingConfig.MaxDepth = 0
	if depth := NewRayTracingIntegrator(sc).MaxDepth(); depth != DefaultMaxDepth {
		t.Errorf("Expected default depth %d, got %d", DefaultMaxDepth, depth)
	}
}
