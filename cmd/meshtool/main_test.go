package main

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/pkg/math"
	"github.com/Faultbox/meshforge/pkg/mesh"
)

// newTestApp returns an app whose library searches dir.
func newTestApp(t *testing.T, dir string) (*app, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Library.SearchPaths = []string{dir}
	var out bytes.Buffer
	return newApp(cfg, &out), &out
}

func runOK(t *testing.T, a *app, args ...string) {
	t.Helper()
	if err := run(a, args); err != nil {
		t.Fatalf("meshtool %s: %v", strings.Join(args, " "), err)
	}
}

func TestGenShapes(t *testing.T) {
	tests := []struct {
		shape    string
		vertices int
		indexed  bool
	}{
		{"triangle", 3, false},
		{"plane", 25, true},    // 5x5 grid
		{"sphere", 45, true},   // 9x5
		{"cylinder", 18, true}, // 9x2
		{"torus", 45, true},    // 9x5
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.shape, func(t *testing.T) {
			a, _ := newTestApp(t, dir)
			out := filepath.Join(dir, tt.shape+".mesh")
			runOK(t, a, "gen", "-steps", "4", tt.shape, out)

			b, order, err := mesh.DecodeFile(out)
			if err != nil {
				t.Fatalf("decoding generated mesh: %v", err)
			}
			if order != binary.LittleEndian {
				t.Errorf("expected little endian by default, got %v", order)
			}
			if len(b.Vertices) != tt.vertices {
				t.Errorf("expected %d vertices, got %d", tt.vertices, len(b.Vertices))
			}
			if len(b.Spans) != 1 || b.Spans[0].UsesIndexBuffer != tt.indexed {
				t.Errorf("unexpected spans: %v", b.Spans)
			}
			if b.MaterialID != "default" {
				t.Errorf("expected default material, got %q", b.MaterialID)
			}
		})
	}
}

func TestGenOptions(t *testing.T) {
	dir := t.TempDir()
	a, _ := newTestApp(t, dir)
	out := filepath.Join(dir, "tri.mesh")

	runOK(t, a, "gen",
		"-material", "props/sign",
		"-color", "1,0,0",
		"-translate", "10,0,0",
		"-scale", "2",
		"-big-endian",
		"triangle", out)

	b, order, err := mesh.DecodeFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if order != binary.BigEndian {
		t.Errorf("expected big endian, got %v", order)
	}
	if b.MaterialID != "props/sign" {
		t.Errorf("expected material props/sign, got %q", b.MaterialID)
	}
	if !b.Mask.IsSet(mesh.Color) || b.Vertices[0].Color != [4]uint8{255, 0, 0, 255} {
		t.Errorf("expected red vertices, got %v", b.Vertices[0].Color)
	}
	// (0,1,0) scaled by 2 then moved along X.
	if b.Vertices[0].Position != (math.Vec3{X: 10, Y: 2, Z: 0}) {
		t.Errorf("unexpected transformed position %v", b.Vertices[0].Position)
	}
}

func TestGenErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"unknown shape", []string{"gen", "cube", filepath.Join(dir, "x.mesh")}},
		{"zero steps", []string{"gen", "-steps", "0", "plane", filepath.Join(dir, "x.mesh")}},
		{"bad color", []string{"gen", "-color", "red", "triangle", filepath.Join(dir, "x.mesh")}},
		{"missing output", []string{"gen", "triangle"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestApp(t, dir)
			if err := run(a, tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	a, out := newTestApp(t, dir)
	runOK(t, a, "gen", "-material", "rock", "plane", filepath.Join(dir, "plane.mesh"))
	out.Reset()

	runOK(t, a, "info", "plane")

	text := out.String()
	for _, want := range []string{
		`Material:   "rock"`,
		"Format:     v1, little",
		"position",
		"normal",
		"uv0",
		"Triangles",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("info output missing %q:\n%s", want, text)
		}
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	a, _ := newTestApp(t, dir)
	src := filepath.Join(dir, "src.mesh")
	dst := filepath.Join(dir, "dst.mesh")
	runOK(t, a, "gen", "sphere", src)

	runOK(t, a, "convert", src, dst)

	want, _, err := mesh.DecodeFile(src)
	if err != nil {
		t.Fatal(err)
	}
	got, order, err := mesh.DecodeFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if order != binary.BigEndian {
		t.Errorf("expected convert to flip to big endian, got %v", order)
	}
	if !got.Equal(want) {
		t.Error("convert changed the batch")
	}

	// Explicit order keeps little endian.
	runOK(t, a, "convert", "-order", "little", dst, src)
	if _, order, _ := mesh.DecodeFile(src); order != binary.LittleEndian {
		t.Errorf("expected little endian, got %v", order)
	}
}

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	a, out := newTestApp(t, dir)
	runOK(t, a, "gen", "triangle", filepath.Join(dir, "a.mesh"))
	runOK(t, a, "gen", "-translate", "2,0,0", "triangle", filepath.Join(dir, "b.mesh"))
	runOK(t, a, "gen", "-material", "other", "triangle", filepath.Join(dir, "c.mesh"))
	out.Reset()

	merged := filepath.Join(dir, "scene.mesh")
	err := run(a, []string{"merge", "-split", merged, "a", "b", "c", "missing"})
	if err == nil || !strings.Contains(err.Error(), "1 of 4 inputs skipped") {
		t.Errorf("expected skipped input to fail the command, got %v", err)
	}

	b, _, err := mesh.DecodeFile(merged)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if len(b.Vertices) != 6 || len(b.Spans) != 2 {
		t.Errorf("expected 6 vertices in 2 spans, got %d in %d", len(b.Vertices), len(b.Spans))
	}

	other, _, err := mesh.DecodeFile(filepath.Join(dir, "scene.1.mesh"))
	if err != nil {
		t.Fatalf("split group not written: %v", err)
	}
	if other.MaterialID != "other" {
		t.Errorf("expected split group material other, got %q", other.MaterialID)
	}

	text := out.String()
	if !strings.Contains(text, "Skipped:") {
		t.Errorf("missing input not reported:\n%s", text)
	}
}

func TestMergeAllInputsLoaded(t *testing.T) {
	dir := t.TempDir()
	a, _ := newTestApp(t, dir)
	runOK(t, a, "gen", "triangle", filepath.Join(dir, "a.mesh"))
	runOK(t, a, "gen", "-translate", "2,0,0", "triangle", filepath.Join(dir, "b.mesh"))

	runOK(t, a, "merge", filepath.Join(dir, "scene.mesh"), "a", "b")
}

func TestMergeNothing(t *testing.T) {
	dir := t.TempDir()
	a, _ := newTestApp(t, dir)
	if err := run(a, []string{"merge", filepath.Join(dir, "out.mesh"), "ghost"}); err == nil {
		t.Error("expected error when no input loads")
	}
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	a, out := newTestApp(t, dir)
	runOK(t, a, "gen", "-color", "0,0,1,1", "triangle", filepath.Join(dir, "tri.mesh"))
	out.Reset()

	runOK(t, a, "dump", "-n", "2", "tri")

	text := out.String()
	for _, want := range []string{
		"span 0: ",
		"v0 ",
		"color=#0000ffff",
		"position=(0,1,0)",
		"... 1 more vertices",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("dump output missing %q:\n%s", want, text)
		}
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	a, out := newTestApp(t, dir)
	runOK(t, a, "gen", "triangle", filepath.Join(dir, "tri.mesh"))
	runOK(t, a, "gen", "plane", filepath.Join(dir, "floor.mesh"))
	out.Reset()

	runOK(t, a, "list")
	if got := out.String(); got != "floor\ntri\n" {
		t.Errorf("unexpected list output %q", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	a, _ := newTestApp(t, t.TempDir())
	if err := run(a, []string{"explode"}); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestParseHelpers(t *testing.T) {
	v, err := parseVec3(" 1, -2.5 ,3")
	if err != nil || v != (math.Vec3{X: 1, Y: -2.5, Z: 3}) {
		t.Errorf("parseVec3: got %v, %v", v, err)
	}
	if _, err := parseVec3("1,2"); err == nil {
		t.Error("parseVec3 should reject two values")
	}

	c, err := parseColor("0.5,0.25,1")
	if err != nil || c != [4]float32{0.5, 0.25, 1, 1} {
		t.Errorf("parseColor: got %v, %v", c, err)
	}
	if _, err := parseColor("1,x,0,1"); err == nil {
		t.Error("parseColor should reject non-numbers")
	}
}
