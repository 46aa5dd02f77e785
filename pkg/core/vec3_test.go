package core

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func vecNear(a, b Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		result   Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Clamp", NewVec3(-0.5, 0.5, 1.5).Clamp(0, 1), NewVec3(0, 0.5, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !vecNear(tt.result, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}

	if dot := a.Dot(b); dot != 12 {
		t.Errorf("Expected dot 12, got %f", dot)
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 0, 4)
	n := v.Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", n.Length())
	}
	if !vecNear(n, NewVec3(0.6, 0, 0.8), 1e-12) {
		t.Errorf("Expected (0.6, 0, 0.8), got %v", n)
	}

	zero := Vec3{}.Normalize()
	if zero != (Vec3{}) {
		t.Errorf("Zero vector should normalize to zero, got %v", zero)
	}
}

func TestVec3_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		incoming Vec3
		normal   Vec3
		expected Vec3
	}{
		{"head on", NewVec3(0, 0, -1), NewVec3(0, 0, 1), NewVec3(0, 0, 1)},
		{"45 degrees", NewVec3(1, -1, 0), NewVec3(0, 1, 0), NewVec3(1, 1, 0)},
		{"grazing", NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.incoming.Reflect(tt.normal)
			if !vecNear(result, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_NearZero(t *testing.T) {
	if !NewVec3(1e-9, -1e-9, 0).NearZero() {
		t.Error("Expected tiny vector to be near zero")
	}
	if NewVec3(1e-3, 0, 0).NearZero() {
		t.Error("Expected 1e-3 component not to be near zero")
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 1, 1), NewVec3(0, 0, -2))
	if p := ray.At(2); !vecNear(p, NewVec3(1, 1, -3), 1e-12) {
		t.Errorf("Expected (1, 1, -3), got %v", p)
	}
}

func TestRandomInUnitSphere(t *testing.T) {
	random := NewRandom(42)
	for i := 0; i < 1000; i++ {
		p := RandomInUnitSphere(random)
		if l := p.Length(); l >= 1.0 || l == 0 {
			t.Fatalf("Sample %d outside open unit ball: %v (length %f)", i, p, l)
		}
	}
}

func TestRandomUnitVector(t *testing.T) {
	random := NewRandom(7)
	for i := 0; i < 100; i++ {
		if l := RandomUnitVector(random).Length(); math.Abs(l-1) > 1e-9 {
			t.Fatalf("Expected unit length, got %f", l)
		}
	}
}

func TestNewRandom_Deterministic(t *testing.T) {
	a, b := NewRandom(99), NewRandom(99)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("Generators with the same seed should produce identical sequences")
		}
	}
}

func TestDefaultLogger_Printf(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf)
	logger.Printf("Rendered %d tiles\n", 12)

	if !strings.Contains(buf.String(), "Rendered 12 tiles") {
		t.Errorf("Expected message in log output, got %q", buf.String())
	}
}
