// Package mesh builds variable-shaped vertex batches and serializes them to a
// versioned, endian-explicit binary format.
//
// A Builder accumulates vertices, indices and draw spans into a Batch using a
// "current stamp" idiom: attribute setters change the stamp, AppendVertex copies
// it. Batches with the same attribute mask and material can be merged, and any
// batch with a non-empty mask round-trips through Encode/Decode.
package mesh

import "fmt"

// AttributeKind identifies one recognized category of per-vertex data.
//
// The numeric value is an in-memory detail only. Files store the wire name
// returned by Name, so reordering this list never corrupts existing data.
type AttributeKind uint8

// Recognized attribute kinds, in canonical order.
const (
	Position AttributeKind = iota
	Color
	UV0
	UV1
	UV2
	UV3
	Tangent
	Bitangent
	Normal
	SkinWeights // joint indices travel with the weights

	numAttributeKinds
)

// NumUVChannels is the number of texture-coordinate channels a vertex carries.
const NumUVChannels = 4

// ComponentType is the scalar type of an attribute component on the wire.
type ComponentType uint8

// Component types.
const (
	Float32 ComponentType = iota
	Uint8
	Uint32
)

// String returns a human-readable type name.
func (t ComponentType) String() string {
	switch t {
	case Float32:
		return "f32"
	case Uint8:
		return "u8"
	case Uint32:
		return "u32"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Size returns the byte size of one component.
func (t ComponentType) Size() int {
	switch t {
	case Float32, Uint32:
		return 4
	case Uint8:
		return 1
	default:
		return 0
	}
}

// AttributeInfo describes one catalog entry.
type AttributeInfo struct {
	Kind       AttributeKind
	Name       string        // stable wire name
	Components int           // components per vertex
	Type       ComponentType // component type
	WireSize   int           // bytes per vertex in the column, bundled data included
}

// catalog is indexed by AttributeKind.
// skin_weights is 4 f32 weights followed by 4 u32 joint indices.
var catalog = [numAttributeKinds]AttributeInfo{
	{Position, "position", 3, Float32, 12},
	{Color, "color", 4, Uint8, 4},
	{UV0, "uv0", 2, Float32, 8},
	{UV1, "uv1", 2, Float32, 8},
	{UV2, "uv2", 2, Float32, 8},
	{UV3, "uv3", 2, Float32, 8},
	{Tangent, "tangent", 3, Float32, 12},
	{Bitangent, "bitangent", 3, Float32, 12},
	{Normal, "normal", 3, Float32, 12},
	{SkinWeights, "skin_weights", 4, Float32, 32},
}

var kindsByName = func() map[string]AttributeKind {
	m := make(map[string]AttributeKind, len(catalog))
	for _, info := range catalog {
		m[info.Name] = info.Kind
	}
	return m
}()

// Catalog returns every recognized attribute in canonical order.
func Catalog() []AttributeInfo {
	out := make([]AttributeInfo, len(catalog))
	copy(out, catalog[:])
	return out
}

// KindByName looks up an attribute by its wire name.
func KindByName(name string) (AttributeKind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// UVKind returns the attribute kind for a texture-coordinate channel.
func UVKind(channel int) (AttributeKind, bool) {
	if channel < 0 || channel >= NumUVChannels {
		return 0, false
	}
	return UV0 + AttributeKind(channel), true
}

// Valid reports whether k is a catalog entry.
func (k AttributeKind) Valid() bool {
	return k < numAttributeKinds
}

// Info returns the catalog entry for k. k must be valid.
func (k AttributeKind) Info() AttributeInfo {
	return catalog[k]
}

// Name returns the stable wire name, or "" for an invalid kind.
func (k AttributeKind) Name() string {
	if !k.Valid() {
		return ""
	}
	return catalog[k].Name
}

// String returns the wire name.
func (k AttributeKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Unknown(%d)", k)
	}
	return catalog[k].Name
}
