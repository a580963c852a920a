// meshtool is a CLI utility for generating and inspecting encoded mesh batches.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/internal/library"
	"github.com/Faultbox/meshforge/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err := run(newApp(cfg, os.Stdout), args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

// app carries what every command needs.
type app struct {
	cfg *config.Config
	out io.Writer
	lib *library.Library
	log *zap.Logger
}

func newApp(cfg *config.Config, out io.Writer) *app {
	log := logger.Named("meshtool")
	order, _ := cfg.Codec.Order()

	lib := library.New(library.Options{
		Extension: cfg.Library.Extension,
		ByteOrder: order,
		Limits:    cfg.Codec.Limits(),
		Logger:    logger.Named("library"),
	})
	for _, dir := range cfg.Library.SearchPaths {
		if err := lib.AddSearchPath(dir); err != nil {
			log.Warn("search path ignored", zap.String("dir", dir), zap.Error(err))
		}
	}

	return &app{cfg: cfg, out: out, lib: lib, log: log}
}

func run(a *app, args []string) error {
	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		return cmdInfo(a, args)
	case "gen", "generate":
		return cmdGen(a, args)
	case "merge":
		return cmdMerge(a, args)
	case "dump":
		return cmdDump(a, args)
	case "convert":
		return cmdConvert(a, args)
	case "list", "ls":
		return cmdList(a, args)
	case "help", "-h", "--help":
		printUsage(a.out)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `meshtool - mesh batch authoring utility

Usage:
  meshtool [global options] <command> [options]

Global options:
  -config <file>      Config file (default ./meshtool.yaml)
  -lib <dir>          Add a library search path (repeatable)
  -byte-order <o>     Byte order for written files (little|big)
  -material <id>      Default material id
  -epsilon <e>        Surface derivative epsilon
  -debug              Enable debug logging
  -log-file <file>    Also write logs to file

Commands:
  info <mesh>                    Show batch information
  gen <shape> <out>              Generate triangle|plane|sphere|cylinder|torus
  merge <out> <mesh...>          Merge compatible batches
  dump <mesh>                    Print spans and vertices
  convert <mesh> <out>           Re-encode with another byte order
  list                           List meshes in the search paths

Examples:
  meshtool gen -steps 32 -color 1,0.5,0,1 sphere ball.mesh
  meshtool merge scene.mesh ball.mesh crate.mesh
  meshtool -lib assets info props/crate
  meshtool convert -order big ball.mesh ball-be.mesh`)
}
