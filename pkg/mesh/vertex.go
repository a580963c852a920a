package mesh

import (
	gomath "math"

	"github.com/Faultbox/meshforge/pkg/math"
)

// Vertex is the superset vertex record. It holds a value for every attribute
// kind; the batch mask says which of them mean anything.
type Vertex struct {
	Position  math.Vec3
	Color     [4]uint8 // RGBA
	UV        [NumUVChannels]math.Vec2
	Tangent   math.Vec3
	Bitangent math.Vec3
	Normal    math.Vec3
	Weights   [4]float32 // sum to 1 when skin data is set
	Joints    [4]uint32
}

// DefaultVertex returns a white vertex fully bound to joint 0.
func DefaultVertex() Vertex {
	return Vertex{
		Color:   [4]uint8{255, 255, 255, 255},
		Weights: defaultWeights,
	}
}

var defaultWeights = [4]float32{1, 0, 0, 0}

type attributeOp struct {
	copy  func(dst, src *Vertex)
	equal func(a, b *Vertex) bool
}

// attributeOps holds the per-kind field accessors used by CopyAttributes and
// EqualAttributes. Indexed by AttributeKind.
var attributeOps = [numAttributeKinds]attributeOp{
	Position: {
		func(dst, src *Vertex) { dst.Position = src.Position },
		func(a, b *Vertex) bool { return a.Position == b.Position },
	},
	Color: {
		func(dst, src *Vertex) { dst.Color = src.Color },
		func(a, b *Vertex) bool { return a.Color == b.Color },
	},
	UV0: uvOps(0),
	UV1: uvOps(1),
	UV2: uvOps(2),
	UV3: uvOps(3),
	Tangent: {
		func(dst, src *Vertex) { dst.Tangent = src.Tangent },
		func(a, b *Vertex) bool { return a.Tangent == b.Tangent },
	},
	Bitangent: {
		func(dst, src *Vertex) { dst.Bitangent = src.Bitangent },
		func(a, b *Vertex) bool { return a.Bitangent == b.Bitangent },
	},
	Normal: {
		func(dst, src *Vertex) { dst.Normal = src.Normal },
		func(a, b *Vertex) bool { return a.Normal == b.Normal },
	},
	SkinWeights: {
		func(dst, src *Vertex) { dst.Weights, dst.Joints = src.Weights, src.Joints },
		func(a, b *Vertex) bool { return a.Weights == b.Weights && a.Joints == b.Joints },
	},
}

func uvOps(ch int) attributeOp {
	return attributeOp{
		func(dst, src *Vertex) { dst.UV[ch] = src.UV[ch] },
		func(a, b *Vertex) bool { return a.UV[ch] == b.UV[ch] },
	}
}

// CopyAttributes copies the attributes present in mask from src to dst and
// leaves every other field of dst untouched.
func CopyAttributes(dst, src *Vertex, mask AttributeMask) {
	for _, k := range mask.Kinds() {
		attributeOps[k].copy(dst, src)
	}
}

// EqualAttributes compares only the attributes present in mask.
func EqualAttributes(a, b *Vertex, mask AttributeMask) bool {
	for _, k := range mask.Kinds() {
		if !attributeOps[k].equal(a, b) {
			return false
		}
	}
	return true
}

// normalizeWeights scales w to sum to 1. It reports false when the sum is
// zero or not finite, in which case the default weights are returned.
func normalizeWeights(w [4]float32) ([4]float32, bool) {
	sum := w[0] + w[1] + w[2] + w[3]
	if sum == 0 || gomath.IsNaN(float64(sum)) || gomath.IsInf(float64(sum), 0) {
		return defaultWeights, false
	}
	for i := range w {
		w[i] /= sum
	}
	return w, true
}
