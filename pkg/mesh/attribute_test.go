package mesh

import (
	"errors"
	"testing"
)

func TestCatalog_CanonicalOrder(t *testing.T) {
	want := []string{
		"position", "color", "uv0", "uv1", "uv2", "uv3",
		"tangent", "bitangent", "normal", "skin_weights",
	}
	cat := Catalog()
	if len(cat) != len(want) {
		t.Fatalf("expected %d catalog entries, got %d", len(want), len(cat))
	}
	for i, info := range cat {
		if info.Name != want[i] {
			t.Errorf("entry %d: expected %q, got %q", i, want[i], info.Name)
		}
		if info.Kind != AttributeKind(i) {
			t.Errorf("entry %d: kind %d out of place", i, info.Kind)
		}
		if got := info.Components * info.Type.Size(); info.Kind != SkinWeights && got != info.WireSize {
			t.Errorf("%s: wire size %d, components give %d", info.Name, info.WireSize, got)
		}
	}
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	cat := Catalog()
	cat[0].Name = "mutated"
	if Position.Name() != "position" {
		t.Error("mutating Catalog() result changed the catalog")
	}
}

func TestKindByName(t *testing.T) {
	tests := []struct {
		name   string
		want   AttributeKind
		wantOK bool
	}{
		{"position", Position, true},
		{"uv2", UV2, true},
		{"skin_weights", SkinWeights, true},
		{"Position", 0, false},
		{"", 0, false},
		{"wobble", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KindByName(tt.name)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("KindByName(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestUVKind(t *testing.T) {
	for ch := 0; ch < NumUVChannels; ch++ {
		k, ok := UVKind(ch)
		if !ok || k != UV0+AttributeKind(ch) {
			t.Errorf("UVKind(%d) = %v, %v", ch, k, ok)
		}
	}
	if _, ok := UVKind(NumUVChannels); ok {
		t.Error("UVKind should reject channel 4")
	}
	if _, ok := UVKind(-1); ok {
		t.Error("UVKind should reject negative channel")
	}
}

func TestAttributeKind_String(t *testing.T) {
	if got := Normal.String(); got != "normal" {
		t.Errorf("got %q, want %q", got, "normal")
	}
	if got := AttributeKind(42).String(); got != "Unknown(42)" {
		t.Errorf("got %q, want %q", got, "Unknown(42)")
	}
	if AttributeKind(42).Name() != "" {
		t.Error("invalid kind should have no wire name")
	}
}

func TestComponentType(t *testing.T) {
	tests := []struct {
		typ  ComponentType
		str  string
		size int
	}{
		{Float32, "f32", 4},
		{Uint8, "u8", 1},
		{Uint32, "u32", 4},
		{ComponentType(9), "Unknown(9)", 0},
	}
	for _, tt := range tests {
		if tt.typ.String() != tt.str || tt.typ.Size() != tt.size {
			t.Errorf("%d: got %q/%d, want %q/%d", tt.typ, tt.typ.String(), tt.typ.Size(), tt.str, tt.size)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	contract := []error{
		ErrSpanAlreadyOpen, ErrNoOpenSpan, ErrZeroSubdivisions, ErrInvalidTopology,
		ErrInvalidUVChannel, ErrEmptyMask, ErrSpanOutOfRange, ErrIndexOutOfRange,
		ErrIncompatibleBatch, ErrNilSurface, ErrTooLarge,
	}
	malformed := []error{
		ErrUnsupportedVersion, ErrUnknownAttribute, ErrDuplicateAttribute, ErrTruncated,
		ErrCountMismatch, ErrStringTooLong, ErrUnknownTopology, ErrCorruptBatch, ErrUnknownByteOrder,
	}

	for _, err := range contract {
		if !IsContractViolation(err) || IsMalformed(err) {
			t.Errorf("%v should be a contract violation only", err)
		}
	}
	for _, err := range malformed {
		if !IsMalformed(err) || IsContractViolation(err) {
			t.Errorf("%v should be malformed input only", err)
		}
	}

	var unknown error = &UnknownAttributeError{Name: "wobble"}
	if !errors.Is(unknown, ErrUnknownAttribute) || !IsMalformed(unknown) {
		t.Error("UnknownAttributeError should match ErrUnknownAttribute and ErrMalformed")
	}
}
