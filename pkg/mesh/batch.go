package mesh

import (
	gomath "math"
	"slices"

	"github.com/Faultbox/meshforge/pkg/math"
)

// Batch is the accumulated state of one authored piece of geometry.
// A batch exclusively owns its slices; callers must not alias them while a
// Builder is recording into the batch.
type Batch struct {
	Mask       AttributeMask
	MaterialID string
	Vertices   []Vertex
	Indices    []uint32
	Spans      []DrawSpan
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns the extent along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// NewBatch returns an empty batch for the given material.
func NewBatch(materialID string) *Batch {
	return &Batch{MaterialID: materialID}
}

// IsEmpty reports whether the batch holds no geometry yet.
func (b *Batch) IsEmpty() bool {
	return len(b.Vertices) == 0 && len(b.Indices) == 0 && len(b.Spans) == 0
}

// Clone returns a deep copy.
func (b *Batch) Clone() *Batch {
	return &Batch{
		Mask:       b.Mask,
		MaterialID: b.MaterialID,
		Vertices:   slices.Clone(b.Vertices),
		Indices:    slices.Clone(b.Indices),
		Spans:      slices.Clone(b.Spans),
	}
}

// Validate checks the invariants a finished batch must hold before it is
// written: a non-empty mask, spans inside their sequences, known topologies
// and indices that reference existing vertices.
func (b *Batch) Validate() error {
	if b.Mask.Empty() {
		return ErrEmptyMask
	}
	if uint64(len(b.Vertices)) > gomath.MaxUint32 ||
		uint64(len(b.Indices)) > gomath.MaxUint32 ||
		uint64(len(b.Spans)) > gomath.MaxUint32 {
		return ErrTooLarge
	}

	for i, s := range b.Spans {
		if !s.Topology.Valid() {
			return spanError(ErrInvalidTopology, i, s)
		}
		limit := uint64(len(b.Vertices))
		if s.UsesIndexBuffer {
			limit = uint64(len(b.Indices))
		}
		if s.End() > limit {
			return spanError(ErrSpanOutOfRange, i, s)
		}
	}

	for i, idx := range b.Indices {
		if int64(idx) >= int64(len(b.Vertices)) {
			return indexError(i, idx, len(b.Vertices))
		}
	}
	return nil
}

// Equal reports whether two batches hold the same material, mask, indices,
// spans and masked vertex attributes. Unmasked attributes are ignored.
func (b *Batch) Equal(other *Batch) bool {
	if b.MaterialID != other.MaterialID || b.Mask != other.Mask {
		return false
	}
	if len(b.Vertices) != len(other.Vertices) ||
		!slices.Equal(b.Indices, other.Indices) ||
		!slices.Equal(b.Spans, other.Spans) {
		return false
	}
	for i := range b.Vertices {
		if !EqualAttributes(&b.Vertices[i], &other.Vertices[i], b.Mask) {
			return false
		}
	}
	return true
}

// Bounds returns the bounding box of all vertex positions.
// ok is false for a batch without vertices.
func (b *Batch) Bounds() (bounds Bounds, ok bool) {
	if len(b.Vertices) == 0 {
		return Bounds{}, false
	}
	bounds.Min = b.Vertices[0].Position
	bounds.Max = b.Vertices[0].Position
	for _, v := range b.Vertices[1:] {
		bounds.Min = bounds.Min.Min(v.Position)
		bounds.Max = bounds.Max.Max(v.Position)
	}
	return bounds, true
}

// Transform bakes m into every vertex. Positions take the full affine
// transform; tangents and bitangents the linear part; normals the
// inverse-transpose. Direction vectors are re-normalized.
func (b *Batch) Transform(m math.Mat4) {
	nm := m.NormalMatrix()
	for i := range b.Vertices {
		v := &b.Vertices[i]
		v.Position = m.TransformPoint(v.Position)
		v.Tangent = m.TransformDirection(v.Tangent).Normalize()
		v.Bitangent = m.TransformDirection(v.Bitangent).Normalize()
		v.Normal = nm.TransformDirection(v.Normal).Normalize()
	}
}

// AppendIfMaskAndMaterialMatch merges other into b when both carry the same
// material and the same attribute mask. An empty b adopts other's mask.
// On mismatch it returns false and leaves b unmodified.
//
// Vertices and index values are appended verbatim. Span starts are offset
// against different bases: index-buffer spans by b's original index count,
// vertex-direct spans by b's original vertex count.
func (b *Batch) AppendIfMaskAndMaterialMatch(other *Batch) bool {
	return b.appendBatch(other, false)
}

// AppendGeometry is AppendIfMaskAndMaterialMatch with merged index values
// rebased by b's original vertex count, so indexed spans taken from other
// keep referencing other's vertices.
func (b *Batch) AppendGeometry(other *Batch) bool {
	return b.appendBatch(other, true)
}

func (b *Batch) appendBatch(other *Batch, rebase bool) bool {
	if b.MaterialID != other.MaterialID {
		return false
	}
	empty := b.IsEmpty()
	if !empty && !b.Mask.Compatible(other.Mask) {
		return false
	}
	if uint64(len(b.Vertices))+uint64(len(other.Vertices)) > gomath.MaxUint32 ||
		uint64(len(b.Indices))+uint64(len(other.Indices)) > gomath.MaxUint32 {
		return false
	}
	if empty {
		b.Mask = other.Mask
	}

	v0 := uint32(len(b.Vertices))
	i0 := uint32(len(b.Indices))

	// Snapshot lengths so merging a batch into itself terminates.
	nv, ni, ns := len(other.Vertices), len(other.Indices), len(other.Spans)

	b.Vertices = append(b.Vertices, other.Vertices[:nv]...)

	if rebase {
		b.Indices = slices.Grow(b.Indices, ni)
		for _, idx := range other.Indices[:ni] {
			b.Indices = append(b.Indices, idx+v0)
		}
	} else {
		b.Indices = append(b.Indices, other.Indices[:ni]...)
	}

	b.Spans = slices.Grow(b.Spans, ns)
	for _, s := range other.Spans[:ns] {
		if s.UsesIndexBuffer {
			s.StartIndex += i0
		} else {
			s.StartIndex += v0
		}
		b.Spans = append(b.Spans, s)
	}
	return true
}

// Append merges other into b and treats a mismatch as a caller bug.
func (b *Batch) Append(other *Batch) error {
	if !b.AppendIfMaskAndMaterialMatch(other) {
		return ErrIncompatibleBatch
	}
	return nil
}
