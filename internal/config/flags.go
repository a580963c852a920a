package config

import (
	"flag"
	"strings"
)

// pathList collects a repeatable path flag.
type pathList []string

func (p *pathList) String() string {
	return strings.Join(*p, ",")
}

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile   = flag.String("log-file", "", "Also write logs to this file")
	flagByteOrder = flag.String("byte-order", "", "Byte order for written meshes (little|big)")
	flagMaterial  = flag.String("material", "", "Default material id for generated meshes")
	flagEpsilon   = flag.Float64("epsilon", 0, "Central-difference epsilon for surface patches")
	flagLibPaths  pathList
)

func init() {
	flag.Var(&flagLibPaths, "lib", "Add a mesh library search path (repeatable)")
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagByteOrder != "" {
		cfg.Codec.ByteOrder = *flagByteOrder
	}
	if *flagMaterial != "" {
		cfg.Builder.DefaultMaterial = *flagMaterial
	}
	if *flagEpsilon > 0 {
		cfg.Builder.DerivativeEpsilon = float32(*flagEpsilon)
	}
	cfg.Library.SearchPaths = append(cfg.Library.SearchPaths, flagLibPaths...)
}
