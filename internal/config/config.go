// Package config handles meshtool configuration loading and management.
package config

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/meshforge/pkg/mesh"
)

// Config holds all meshtool settings.
type Config struct {
	Codec   CodecConfig   `yaml:"codec"`
	Builder BuilderConfig `yaml:"builder"`
	Library LibraryConfig `yaml:"library"`
	Logging LoggingConfig `yaml:"logging"`
}

// CodecConfig holds binary codec settings.
type CodecConfig struct {
	ByteOrder       string `yaml:"byte_order"` // "little" or "big"
	MaxVertices     uint32 `yaml:"max_vertices"`
	MaxIndices      uint32 `yaml:"max_indices"`
	MaxSpans        uint32 `yaml:"max_spans"`
	MaxStringLength uint32 `yaml:"max_string_length"`
}

// BuilderConfig holds geometry building settings.
type BuilderConfig struct {
	DerivativeEpsilon float32 `yaml:"derivative_epsilon"`
	DefaultMaterial   string  `yaml:"default_material"`
}

// LibraryConfig holds mesh library settings.
type LibraryConfig struct {
	SearchPaths []string `yaml:"search_paths"` // later entries take priority
	Extension   string   `yaml:"extension"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	limits := mesh.DefaultDecoderLimits()
	return &Config{
		Codec: CodecConfig{
			ByteOrder:       "little",
			MaxVertices:     limits.MaxVertices,
			MaxIndices:      limits.MaxIndices,
			MaxSpans:        limits.MaxSpans,
			MaxStringLength: limits.MaxStringLength,
		},
		Builder: BuilderConfig{
			DerivativeEpsilon: mesh.DefaultDerivativeEpsilon,
			DefaultMaterial:   "default",
		},
		Library: LibraryConfig{
			SearchPaths: []string{"."},
			Extension:   ".mesh",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Codec.Order(); err != nil {
		errs = append(errs, err)
	}
	if c.Builder.DerivativeEpsilon <= 0 {
		errs = append(errs, fmt.Errorf("builder.derivative_epsilon must be positive, got %g", c.Builder.DerivativeEpsilon))
	}
	if c.Library.Extension != "" && !strings.HasPrefix(c.Library.Extension, ".") {
		errs = append(errs, fmt.Errorf("library.extension must start with a dot, got %q", c.Library.Extension))
	}
	return errors.Join(errs...)
}

// Order returns the configured byte order.
func (c CodecConfig) Order() (binary.ByteOrder, error) {
	return ParseByteOrder(c.ByteOrder)
}

// Limits returns the decoder limits.
func (c CodecConfig) Limits() mesh.DecoderLimits {
	return mesh.DecoderLimits{
		MaxVertices:     c.MaxVertices,
		MaxIndices:      c.MaxIndices,
		MaxSpans:        c.MaxSpans,
		MaxStringLength: c.MaxStringLength,
	}
}

// Options returns the builder options.
func (c BuilderConfig) Options() mesh.BuilderOptions {
	return mesh.BuilderOptions{DerivativeEpsilon: c.DerivativeEpsilon}
}

// ParseByteOrder accepts "little"/"le" and "big"/"be" in any case.
func ParseByteOrder(s string) (binary.ByteOrder, error) {
	switch strings.ToLower(s) {
	case "little", "le", "":
		return binary.LittleEndian, nil
	case "big", "be":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("codec.byte_order: unknown byte order %q", s)
	}
}

// ByteOrderName returns the config spelling of order.
func ByteOrderName(order binary.ByteOrder) string {
	if order == binary.BigEndian {
		return "big"
	}
	return "little"
}
