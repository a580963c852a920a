package mesh

import (
	"fmt"

	"github.com/Faultbox/meshforge/pkg/math"
)

// DefaultDerivativeEpsilon is the parametric step used for central-difference
// tangents when BuilderOptions leaves it unset.
const DefaultDerivativeEpsilon float32 = 1e-3

// BuilderOptions contains options for geometry building.
type BuilderOptions struct {
	// DerivativeEpsilon is the parametric offset used to estimate surface
	// tangents in BuildSurfacePatch. It does not scale with patch size.
	DerivativeEpsilon float32
}

// DefaultBuilderOptions returns the options used by NewBuilder callers that
// have no preference.
func DefaultBuilderOptions() BuilderOptions {
	return BuilderOptions{DerivativeEpsilon: DefaultDerivativeEpsilon}
}

// Builder records geometry into a Batch.
//
// Spans follow an Idle -> Recording -> Idle cycle driven by BeginSpan and
// EndSpan. Attribute setters modify a persistent current stamp and flag the
// attribute in the batch mask; AppendVertex copies the stamp.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	batch     *Batch
	stamp     Vertex
	opts      BuilderOptions
	recording bool
	open      DrawSpan
}

// NewBuilder returns a builder over a fresh batch for materialID.
func NewBuilder(materialID string, opts BuilderOptions) *Builder {
	return NewBuilderFor(NewBatch(materialID), opts)
}

// NewBuilderFor returns a builder that continues recording into batch.
func NewBuilderFor(batch *Batch, opts BuilderOptions) *Builder {
	if opts.DerivativeEpsilon <= 0 {
		opts.DerivativeEpsilon = DefaultDerivativeEpsilon
	}
	return &Builder{
		batch: batch,
		stamp: DefaultVertex(),
		opts:  opts,
	}
}

// Batch returns the batch being built.
func (b *Builder) Batch() *Batch {
	return b.batch
}

// Options returns the effective builder options.
func (b *Builder) Options() BuilderOptions {
	return b.opts
}

// Recording reports whether a span is open.
func (b *Builder) Recording() bool {
	return b.recording
}

// Stamp returns a copy of the current vertex stamp.
func (b *Builder) Stamp() Vertex {
	return b.stamp
}

// Reset starts a new empty batch with the same material and clears the stamp.
func (b *Builder) Reset() {
	b.batch = NewBatch(b.batch.MaterialID)
	b.stamp = DefaultVertex()
	b.recording = false
	b.open = DrawSpan{}
}

// BeginSpan opens a span. Its start is the current vertex count, or the
// current index count when usesIndexBuffer is set.
func (b *Builder) BeginSpan(topology Topology, usesIndexBuffer bool) error {
	if b.recording {
		return fmt.Errorf("%w: begin %s while recording %s", ErrSpanAlreadyOpen, topology, b.open.Topology)
	}
	if !topology.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidTopology, topology)
	}
	b.open = DrawSpan{
		Topology:        topology,
		StartIndex:      b.currentLength(usesIndexBuffer),
		UsesIndexBuffer: usesIndexBuffer,
	}
	b.recording = true
	return nil
}

// EndSpan closes the open span and appends it to the batch.
func (b *Builder) EndSpan() error {
	if !b.recording {
		return ErrNoOpenSpan
	}
	span := b.open
	span.Count = b.currentLength(span.UsesIndexBuffer) - span.StartIndex
	b.batch.Spans = append(b.batch.Spans, span)
	b.recording = false
	b.open = DrawSpan{}
	return nil
}

func (b *Builder) currentLength(indexed bool) uint32 {
	if indexed {
		return uint32(len(b.batch.Indices))
	}
	return uint32(len(b.batch.Vertices))
}

// SetColor sets the stamp color.
func (b *Builder) SetColor(c [4]uint8) {
	b.stamp.Color = c
	b.batch.Mask.Set(Color)
}

// SetColorFloat sets the stamp color from components in [0, 1].
// Out-of-range values are clamped.
func (b *Builder) SetColorFloat(r, g, bl, a float32) {
	b.SetColor([4]uint8{quantize(r), quantize(g), quantize(bl), quantize(a)})
}

func quantize(f float32) uint8 {
	return uint8(math.Clamp(f, 0, 1)*255 + 0.5)
}

// SetUV sets one texture-coordinate channel of the stamp.
func (b *Builder) SetUV(channel int, uv math.Vec2) error {
	k, ok := UVKind(channel)
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidUVChannel, channel)
	}
	b.stamp.UV[channel] = uv
	b.batch.Mask.Set(k)
	return nil
}

// SetUV0 sets the first texture-coordinate channel.
func (b *Builder) SetUV0(uv math.Vec2) {
	b.stamp.UV[0] = uv
	b.batch.Mask.Set(UV0)
}

// SetTangent sets the stamp tangent.
func (b *Builder) SetTangent(t math.Vec3) {
	b.stamp.Tangent = t
	b.batch.Mask.Set(Tangent)
}

// SetBitangent sets the stamp bitangent.
func (b *Builder) SetBitangent(bt math.Vec3) {
	b.stamp.Bitangent = bt
	b.batch.Mask.Set(Bitangent)
}

// SetNormal sets the stamp normal.
func (b *Builder) SetNormal(n math.Vec3) {
	b.stamp.Normal = n
	b.batch.Mask.Set(Normal)
}

// SetTangentBitangentNormal sets the full tangent frame.
func (b *Builder) SetTangentBitangentNormal(t, bt, n math.Vec3) {
	b.SetTangent(t)
	b.SetBitangent(bt)
	b.SetNormal(n)
}

// SetSkinWeights sets joint bindings. Weights are renormalized to sum to 1.
// A zero or non-finite sum resets the stamp to full weight on joint 0 and removes skin
// data from the mask.
func (b *Builder) SetSkinWeights(joints [4]uint32, weights [4]float32) {
	w, ok := normalizeWeights(weights)
	if !ok {
		b.stamp.Weights = w
		b.stamp.Joints = [4]uint32{}
		b.batch.Mask.Clear(SkinWeights)
		return
	}
	b.stamp.Weights = w
	b.stamp.Joints = joints
	b.batch.Mask.Set(SkinWeights)
}

// AppendVertex appends the current stamp at pos and returns its index.
func (b *Builder) AppendVertex(pos math.Vec3) uint32 {
	v := b.stamp
	v.Position = pos
	b.batch.Mask.Set(Position)
	b.batch.Vertices = append(b.batch.Vertices, v)
	return uint32(len(b.batch.Vertices) - 1)
}

// AppendIndex appends one index.
func (b *Builder) AppendIndex(i uint32) {
	b.batch.Indices = append(b.batch.Indices, i)
}

// AppendTriangleIndices appends one triangle.
func (b *Builder) AppendTriangleIndices(i0, i1, i2 uint32) {
	b.batch.Indices = append(b.batch.Indices, i0, i1, i2)
}

// AppendQuadIndices appends two triangles (a, b, c) and (c, b, d) covering
// the quad whose corners are given in grid order:
//
//	c---d
//	|  /|
//	| / |
//	a---b
func (b *Builder) AppendQuadIndices(a, bb, c, d uint32) {
	b.batch.Indices = append(b.batch.Indices,
		a, bb, c,
		c, bb, d,
	)
}

// Merge appends other into the builder's batch, see
// Batch.AppendIfMaskAndMaterialMatch. Merging while a span is open is a
// contract violation.
//
// A builder without geometry adopts other's mask only when it covers every
// attribute already flagged by the stamp setters; otherwise the merge is
// refused and the builder is left unchanged.
func (b *Builder) Merge(other *Batch) (bool, error) {
	if b.recording {
		return false, fmt.Errorf("%w: merge while recording", ErrSpanAlreadyOpen)
	}
	if b.batch.IsEmpty() && b.batch.Mask&^other.Mask != 0 {
		return false, nil
	}
	return b.batch.AppendIfMaskAndMaterialMatch(other), nil
}
