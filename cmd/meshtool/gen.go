package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	gomath "math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/pkg/math"
	"github.com/Faultbox/meshforge/pkg/mesh"
)

const twoPi = 2 * gomath.Pi

func cmdGen(a *app, args []string) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	steps := fs.Int("steps", 16, "Subdivisions per axis")
	radius := fs.Float64("radius", 1, "Radius for sphere, cylinder and torus")
	material := fs.String("material", a.cfg.Builder.DefaultMaterial, "Material id")
	color := fs.String("color", "", "Vertex color as r,g,b[,a] in 0..1")
	translate := fs.String("translate", "", "Translation as x,y,z")
	scale := fs.Float64("scale", 1, "Uniform scale")
	bigEndian := fs.Bool("big-endian", false, "Write big-endian regardless of config")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("usage: meshtool gen [options] <triangle|plane|sphere|cylinder|torus> <out>")
	}
	shape, out := fs.Arg(0), fs.Arg(1)

	b := mesh.NewBuilder(*material, a.cfg.Builder.Options())
	if *color != "" {
		c, err := parseColor(*color)
		if err != nil {
			return err
		}
		b.SetColorFloat(c[0], c[1], c[2], c[3])
	}

	if err := buildShape(b, shape, *steps, float32(*radius)); err != nil {
		return err
	}

	batch := b.Batch()
	if *translate != "" || *scale != 1 {
		offset := math.Vec3{}
		if *translate != "" {
			var err error
			if offset, err = parseVec3(*translate); err != nil {
				return err
			}
		}
		s := float32(*scale)
		batch.Transform(math.Translate(offset.X, offset.Y, offset.Z).Mul(math.Scale(s, s, s)))
	}

	order, err := a.cfg.Codec.Order()
	if err != nil {
		return err
	}
	if *bigEndian {
		order = binary.BigEndian
	}

	if err := mesh.EncodeFile(out, batch, order); err != nil {
		return err
	}

	a.log.Info("mesh generated",
		zap.String("shape", shape),
		zap.String("path", out),
		zap.Int("vertices", len(batch.Vertices)),
		zap.Int("indices", len(batch.Indices)))
	fmt.Fprintf(a.out, "Generated: %s (%s, %d vertices, %d indices, %s)\n",
		out, shape, len(batch.Vertices), len(batch.Indices), config.ByteOrderName(order))
	return nil
}

func buildShape(b *mesh.Builder, shape string, steps int, radius float32) error {
	switch shape {
	case "triangle":
		return b.BuildTriangle(
			math.Vec3{X: 0, Y: 1, Z: 0},
			math.Vec3{X: 0, Y: 0, Z: 0},
			math.Vec3{X: 1, Y: 0, Z: 0},
		)
	case "plane":
		return b.BuildSurfacePatch(mesh.PlaneSurface(),
			mesh.Range{From: -0.5, To: 0.5}, steps,
			mesh.Range{From: -0.5, To: 0.5}, steps)
	case "sphere":
		return b.BuildSurfacePatch(mesh.SphereSurface(radius),
			mesh.Range{From: 0, To: twoPi}, steps*2,
			mesh.Range{From: -gomath.Pi / 2, To: gomath.Pi / 2}, steps)
	case "cylinder":
		return b.BuildSurfacePatch(mesh.CylinderSurface(radius),
			mesh.Range{From: 0, To: twoPi}, steps*2,
			mesh.Range{From: 0, To: 1}, 1)
	case "torus":
		return b.BuildSurfacePatch(mesh.TorusSurface(radius, radius/4),
			mesh.Range{From: 0, To: twoPi}, steps*2,
			mesh.Range{From: 0, To: twoPi}, steps)
	default:
		return fmt.Errorf("unknown shape: %s", shape)
	}
}

// parseFloats parses a comma-separated list of n floats.
func parseFloats(s string, n int) ([]float32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated values, got %q", n, s)
	}
	out := make([]float32, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", s, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseVec3(s string) (math.Vec3, error) {
	f, err := parseFloats(s, 3)
	if err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: f[0], Y: f[1], Z: f[2]}, nil
}

// parseColor accepts r,g,b or r,g,b,a.
func parseColor(s string) ([4]float32, error) {
	if strings.Count(s, ",") == 2 {
		s += ",1"
	}
	f, err := parseFloats(s, 4)
	if err != nil {
		return [4]float32{}, err
	}
	return [4]float32{f[0], f[1], f[2], f[3]}, nil
}

func fmtVec3(v math.Vec3) string {
	return fmt.Sprintf("(%.4g,%.4g,%.4g)", v.X, v.Y, v.Z)
}
