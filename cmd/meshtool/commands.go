package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/pkg/mesh"
)

func cmdInfo(a *app, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: meshtool info <mesh>")
	}

	path, err := a.lib.Resolve(args[0])
	if err != nil {
		return err
	}
	b, format, err := a.lib.DecodeFile(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "File:       %s\n", path)
	fmt.Fprintf(a.out, "Format:     v%d, %s\n", format.Version, config.ByteOrderName(format.Order))
	fmt.Fprintf(a.out, "Material:   %q\n", b.MaterialID)
	fmt.Fprintf(a.out, "Vertices:   %d (%d bytes each)\n", len(b.Vertices), b.Mask.VertexWireSize())
	fmt.Fprintf(a.out, "Indices:    %d\n", len(b.Indices))
	fmt.Fprintf(a.out, "Spans:      %d\n", len(b.Spans))
	if bounds, ok := b.Bounds(); ok {
		fmt.Fprintf(a.out, "Bounds:     %v .. %v\n", fmtVec3(bounds.Min), fmtVec3(bounds.Max))
	}
	fmt.Fprintln(a.out)

	fmt.Fprintln(a.out, "Attributes:")
	for _, k := range b.Mask.Kinds() {
		info := k.Info()
		fmt.Fprintf(a.out, "  %-14s %d x %s\n", info.Name, info.Components, info.Type)
	}
	fmt.Fprintln(a.out)

	fmt.Fprintln(a.out, "Spans:")
	for i, s := range b.Spans {
		fmt.Fprintf(a.out, "  %3d  %s\n", i, s)
	}
	return nil
}

func cmdDump(a *app, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	limit := fs.Int("n", 0, "Limit output to N vertices (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: meshtool dump [-n N] <mesh>")
	}

	b, err := a.lib.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	for i, s := range b.Spans {
		fmt.Fprintf(a.out, "span %d: %s\n", i, s)
	}

	kinds := b.Mask.Kinds()
	for i := range b.Vertices {
		if *limit > 0 && i >= *limit {
			fmt.Fprintf(a.out, "... %d more vertices\n", len(b.Vertices)-i)
			break
		}
		v := &b.Vertices[i]
		parts := make([]string, 0, len(kinds))
		for _, k := range kinds {
			parts = append(parts, k.Name()+"="+formatAttribute(v, k))
		}
		fmt.Fprintf(a.out, "v%-5d %s\n", i, strings.Join(parts, " "))
	}

	for i := 0; i+2 < len(b.Indices); i += 3 {
		fmt.Fprintf(a.out, "i%-5d %d %d %d\n", i, b.Indices[i], b.Indices[i+1], b.Indices[i+2])
	}
	if rem := len(b.Indices) % 3; rem != 0 {
		fmt.Fprintf(a.out, "i%-5d %v\n", len(b.Indices)-rem, b.Indices[len(b.Indices)-rem:])
	}
	return nil
}

func formatAttribute(v *mesh.Vertex, k mesh.AttributeKind) string {
	switch k {
	case mesh.Position:
		return fmtVec3(v.Position)
	case mesh.Color:
		return fmt.Sprintf("#%02x%02x%02x%02x", v.Color[0], v.Color[1], v.Color[2], v.Color[3])
	case mesh.UV0, mesh.UV1, mesh.UV2, mesh.UV3:
		uv := v.UV[k-mesh.UV0]
		return fmt.Sprintf("(%.4g,%.4g)", uv.X, uv.Y)
	case mesh.Tangent:
		return fmtVec3(v.Tangent)
	case mesh.Bitangent:
		return fmtVec3(v.Bitangent)
	case mesh.Normal:
		return fmtVec3(v.Normal)
	case mesh.SkinWeights:
		return fmt.Sprintf("%v@%v", v.Weights, v.Joints)
	}
	return "?"
}

func cmdConvert(a *app, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	orderName := fs.String("order", "", "Target byte order (default: the opposite of the input)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("usage: meshtool convert [-order little|big] <mesh> <out>")
	}

	path, err := a.lib.Resolve(fs.Arg(0))
	if err != nil {
		return err
	}
	b, format, err := a.lib.DecodeFile(path)
	if err != nil {
		return err
	}
	from := format.Order

	var to binary.ByteOrder = binary.BigEndian
	if from == binary.BigEndian {
		to = binary.LittleEndian
	}
	if *orderName != "" {
		if to, err = config.ParseByteOrder(*orderName); err != nil {
			return err
		}
	}

	out := fs.Arg(1)
	if err := mesh.EncodeFile(out, b, to); err != nil {
		return err
	}

	a.log.Info("mesh converted",
		zap.String("from", path),
		zap.String("to", out),
		zap.String("byte_order", config.ByteOrderName(to)))
	fmt.Fprintf(a.out, "Converted: %s (%s) -> %s (%s)\n",
		path, config.ByteOrderName(from), out, config.ByteOrderName(to))
	return nil
}

func cmdMerge(a *app, args []string) error {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	split := fs.Bool("split", false, "Write incompatible groups to numbered files instead of dropping them")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return errors.New("usage: meshtool merge [-split] <out> <mesh...>")
	}

	out := fs.Arg(0)
	groups, loadErr := a.lib.MergeAll(fs.Args()[1:])
	skipped := multierr.Errors(loadErr)
	for _, e := range skipped {
		fmt.Fprintf(a.out, "Skipped: %v\n", e)
	}
	if len(groups) == 0 {
		return errors.New("nothing to merge")
	}

	order, err := a.cfg.Codec.Order()
	if err != nil {
		return err
	}

	for i, g := range groups {
		path := out
		if i > 0 {
			if !*split {
				fmt.Fprintf(a.out, "Rejected: material %q with %s (%d vertices)\n",
					g.MaterialID, g.Mask, len(g.Vertices))
				continue
			}
			ext := filepath.Ext(out)
			path = fmt.Sprintf("%s.%d%s", strings.TrimSuffix(out, ext), i, ext)
		}
		if err := mesh.EncodeFile(path, g, order); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Wrote: %s (material %q, %d vertices, %d spans)\n",
			path, g.MaterialID, len(g.Vertices), len(g.Spans))
	}
	if len(skipped) > 0 {
		return fmt.Errorf("%d of %d inputs skipped: %w", len(skipped), fs.NArg()-1, loadErr)
	}
	return nil
}

func cmdList(a *app, args []string) error {
	names, err := a.lib.Names()
	for _, n := range names {
		fmt.Fprintln(a.out, n)
	}
	return err
}
