package material

import (
	"math/rand"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// Normal visualizes the outward surface normal as a color
type Normal struct{}

// NewNormal creates a normal-visualization shader
func NewNormal() *Normal {
	return &Normal{}
}

// Shade maps each normal component from [-1,1] to [0,1]. Lights and depth are ignored.
func (n *Normal) Shade(rayIn core.Ray, hit *HitRecord, tracer Tracer, depth int, random *rand.Rand) core.Vec3 {
	return hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
}
