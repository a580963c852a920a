package mesh

import "strings"

// AttributeMask is the set of attributes meaningful for one batch.
type AttributeMask uint32

// MaskOf builds a mask from a list of kinds.
func MaskOf(kinds ...AttributeKind) AttributeMask {
	var m AttributeMask
	for _, k := range kinds {
		m.Set(k)
	}
	return m
}

// Set adds k to the mask. Invalid kinds are ignored.
func (m *AttributeMask) Set(k AttributeKind) {
	if k.Valid() {
		*m |= 1 << k
	}
}

// Clear removes k from the mask.
func (m *AttributeMask) Clear(k AttributeKind) {
	if k.Valid() {
		*m &^= 1 << k
	}
}

// IsSet reports whether k is in the mask.
func (m AttributeMask) IsSet(k AttributeKind) bool {
	return k.Valid() && m&(1<<k) != 0
}

// Empty reports whether no attribute is set.
func (m AttributeMask) Empty() bool {
	return m == 0
}

// Compatible reports whether both masks contain exactly the same kinds.
func (m AttributeMask) Compatible(other AttributeMask) bool {
	return m == other
}

// Kinds returns the set attributes in canonical order.
func (m AttributeMask) Kinds() []AttributeKind {
	var kinds []AttributeKind
	for k := AttributeKind(0); k < numAttributeKinds; k++ {
		if m.IsSet(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Names returns the wire names of the set attributes in canonical order.
func (m AttributeMask) Names() []string {
	kinds := m.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.Name()
	}
	return names
}

// VertexWireSize returns the bytes one vertex occupies across all columns.
func (m AttributeMask) VertexWireSize() int {
	size := 0
	for _, k := range m.Kinds() {
		size += catalog[k].WireSize
	}
	return size
}

// String returns the names joined with '|'.
func (m AttributeMask) String() string {
	if m.Empty() {
		return "(none)"
	}
	return strings.Join(m.Names(), "|")
}

// FromAttributeNames builds a mask from wire names in any order.
// An unrecognized name yields an *UnknownAttributeError.
func FromAttributeNames(names []string) (AttributeMask, error) {
	var m AttributeMask
	for _, name := range names {
		if err := addAttributeName(&m, name); err != nil {
			return 0, err
		}
	}
	return m, nil
}
