package mesh

import (
	"fmt"

	"github.com/Faultbox/meshforge/pkg/math"
)

// SurfaceFunc maps a point in parametric space to a 3D position.
type SurfaceFunc func(x, y float32) math.Vec3

// Range is a closed parametric interval.
type Range struct {
	From, To float32
}

// At returns the point at fraction t along the range.
func (r Range) At(t float32) float32 {
	return r.From + (r.To-r.From)*t
}

// BuildTriangle appends one non-indexed triangle span with a flat tangent
// frame. The normal is (c-b) x (a-b); the tangent runs along c-b and the
// bitangent is normal x tangent. UV0 is (0,1), (1,1), (0,0) for a, b, c.
//
// The stamp keeps the last tangent frame and UV afterwards.
func (b *Builder) BuildTriangle(a, bb, c math.Vec3) error {
	if b.recording {
		return fmt.Errorf("%w: BuildTriangle while recording", ErrSpanAlreadyOpen)
	}

	edge := c.Sub(bb)
	normal := edge.Cross(a.Sub(bb)).Normalize()
	tangent := edge.Normalize()
	bitangent := normal.Cross(edge).Normalize()

	if err := b.BeginSpan(Triangles, false); err != nil {
		return err
	}
	b.SetTangentBitangentNormal(tangent, bitangent, normal)

	b.SetUV0(math.Vec2{X: 0, Y: 1})
	b.AppendVertex(a)
	b.SetUV0(math.Vec2{X: 1, Y: 1})
	b.AppendVertex(bb)
	b.SetUV0(math.Vec2{X: 0, Y: 0})
	b.AppendVertex(c)

	return b.EndSpan()
}

// BuildSurfacePatch evaluates fn on an (xSteps+1) x (ySteps+1) grid over the
// two ranges and appends it as one indexed triangle span.
//
// Tangent and bitangent come from central differences of fn at
// +/- DerivativeEpsilon along each parametric axis, the normal from their
// cross product. UV0 runs linearly from (0,0) at the first grid point to
// (1,1) at the last. Each cell becomes two triangles wound counter-clockwise
// when viewed against the normal.
func (b *Builder) BuildSurfacePatch(fn SurfaceFunc, xRange Range, xSteps int, yRange Range, ySteps int) error {
	if fn == nil {
		return ErrNilSurface
	}
	if xSteps <= 0 || ySteps <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrZeroSubdivisions, xSteps, ySteps)
	}
	if b.recording {
		return fmt.Errorf("%w: BuildSurfacePatch while recording", ErrSpanAlreadyOpen)
	}

	base := uint32(len(b.batch.Vertices))
	eps := b.opts.DerivativeEpsilon

	if err := b.BeginSpan(Triangles, true); err != nil {
		return err
	}

	for j := 0; j <= ySteps; j++ {
		v := float32(j) / float32(ySteps)
		y := yRange.At(v)
		for i := 0; i <= xSteps; i++ {
			u := float32(i) / float32(xSteps)
			x := xRange.At(u)

			tangent := fn(x+eps, y).Sub(fn(x-eps, y)).Normalize()
			bitangent := fn(x, y+eps).Sub(fn(x, y-eps)).Normalize()
			normal := tangent.Cross(bitangent).Normalize()

			b.SetTangentBitangentNormal(tangent, bitangent, normal)
			b.SetUV0(math.Vec2{X: u, Y: v})
			b.AppendVertex(fn(x, y))
		}
	}

	stride := uint32(xSteps + 1)
	for j := 0; j < ySteps; j++ {
		for i := 0; i < xSteps; i++ {
			a := base + uint32(j)*stride + uint32(i)
			b.AppendQuadIndices(a, a+1, a+stride, a+stride+1)
		}
	}

	return b.EndSpan()
}
