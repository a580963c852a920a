package mesh

import (
	"errors"
	"testing"
)

func TestAttributeMask_SetClear(t *testing.T) {
	var m AttributeMask
	if !m.Empty() {
		t.Fatal("zero mask should be empty")
	}

	m.Set(Normal)
	m.Set(Position)
	if !m.IsSet(Normal) || !m.IsSet(Position) {
		t.Error("expected normal and position set")
	}
	if m.IsSet(Color) {
		t.Error("color should not be set")
	}

	m.Clear(Normal)
	if m.IsSet(Normal) {
		t.Error("normal should be cleared")
	}

	// Invalid kinds are ignored.
	m.Set(AttributeKind(99))
	if m != MaskOf(Position) {
		t.Errorf("invalid kind changed mask: %v", m)
	}
	if m.IsSet(AttributeKind(99)) {
		t.Error("invalid kind reported as set")
	}
}

func TestAttributeMask_KindsAndNames(t *testing.T) {
	m := MaskOf(SkinWeights, Position, UV1, Color)

	kinds := m.Kinds()
	want := []AttributeKind{Position, Color, UV1, SkinWeights}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d kinds, got %v", len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kind %d: expected %v, got %v", i, want[i], kinds[i])
		}
	}

	if got := m.String(); got != "position|color|uv1|skin_weights" {
		t.Errorf("String() = %q", got)
	}
	if got := AttributeMask(0).String(); got != "(none)" {
		t.Errorf("empty String() = %q", got)
	}
}

func TestAttributeMask_VertexWireSize(t *testing.T) {
	m := MaskOf(Position, Color, UV0, SkinWeights)
	if got := m.VertexWireSize(); got != 12+4+8+32 {
		t.Errorf("VertexWireSize() = %d, want 56", got)
	}
}

func TestAttributeMask_Compatible(t *testing.T) {
	a := MaskOf(Position, Normal)
	b := MaskOf(Normal, Position)
	c := MaskOf(Position)
	if !a.Compatible(b) {
		t.Error("same kinds should be compatible")
	}
	if a.Compatible(c) {
		t.Error("subset should not be compatible")
	}
}

func TestFromAttributeNames(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		want    AttributeMask
		wantErr error
	}{
		{"empty", nil, 0, nil},
		{"canonical order", []string{"position", "uv0", "normal"}, MaskOf(Position, UV0, Normal), nil},
		{"any order", []string{"normal", "position", "uv0"}, MaskOf(Position, UV0, Normal), nil},
		{"unknown", []string{"position", "wobble"}, 0, ErrUnknownAttribute},
		{"duplicate", []string{"color", "color"}, 0, ErrDuplicateAttribute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAttributeNames(tt.names)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if !IsMalformed(err) {
					t.Errorf("expected malformed-input error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromAttributeNames_UnknownName(t *testing.T) {
	_, err := FromAttributeNames([]string{"position", "wobble"})
	var unknown *UnknownAttributeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownAttributeError, got %T", err)
	}
	if unknown.Name != "wobble" {
		t.Errorf("expected name %q, got %q", "wobble", unknown.Name)
	}
}

func TestAttributeMask_NamesRoundTrip(t *testing.T) {
	for m := AttributeMask(1); m < 1<<numAttributeKinds; m += 37 {
		got, err := FromAttributeNames(m.Names())
		if err != nil {
			t.Fatalf("mask %v: %v", m, err)
		}
		if got != m {
			t.Errorf("mask %b: round trip gave %b", m, got)
		}
	}
}
