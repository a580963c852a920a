// Package library resolves, loads and caches encoded mesh files.
package library

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/pkg/mesh"
)

// ErrNotFound is returned when no search path holds the requested mesh.
var ErrNotFound = errors.New("library: mesh not found")

// Options configures a Library.
type Options struct {
	Extension string           // appended to names without one
	ByteOrder binary.ByteOrder // used by Save
	Limits    mesh.DecoderLimits
	Logger    *zap.Logger
}

// DefaultOptions returns options for little-endian ".mesh" files.
func DefaultOptions() Options {
	return Options{
		Extension: ".mesh",
		ByteOrder: binary.LittleEndian,
		Limits:    mesh.DefaultDecoderLimits(),
		Logger:    zap.NewNop(),
	}
}

// Library handles mesh loading from a list of directories.
type Library struct {
	searchPaths []string
	opts        Options
	cache       *Cache
	log         *zap.Logger
	mu          sync.RWMutex
}

// New creates a library with no search paths.
func New(opts Options) *Library {
	if opts.ByteOrder == nil {
		opts.ByteOrder = binary.LittleEndian
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Library{
		opts:  opts,
		cache: NewCache(),
		log:   opts.Logger,
	}
}

// AddSearchPath adds a directory to the library.
// Directories are searched in reverse order (last added = highest priority).
func (l *Library) AddSearchPath(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding search path %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding search path %s: not a directory", dir)
	}

	l.mu.Lock()
	l.searchPaths = append(l.searchPaths, dir)
	l.mu.Unlock()

	l.log.Debug("search path added", zap.String("dir", dir))
	return nil
}

// SearchPaths returns the directories in priority order, lowest first.
func (l *Library) SearchPaths() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.searchPaths...)
}

func (l *Library) fileName(name string) string {
	if l.opts.Extension != "" && filepath.Ext(name) == "" {
		return name + l.opts.Extension
	}
	return name
}

// Resolve returns the file that Load would read for name.
func (l *Library) Resolve(name string) (string, error) {
	file := l.fileName(name)
	if filepath.IsAbs(file) {
		if _, err := os.Stat(file); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return file, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := len(l.searchPaths) - 1; i >= 0; i-- {
		path := filepath.Join(l.searchPaths[i], file)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Load returns the batch stored under name. Callers receive their own copy
// and may modify it freely.
func (l *Library) Load(name string) (*mesh.Batch, error) {
	if b, ok := l.cache.Get(name); ok {
		return b.Clone(), nil
	}

	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}

	b, format, err := l.DecodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	l.log.Debug("mesh loaded",
		zap.String("name", name),
		zap.String("path", path),
		zap.Uint32("version", format.Version),
		zap.Stringer("byte_order", format.Order),
		zap.Int("vertices", len(b.Vertices)),
		zap.Int("indices", len(b.Indices)),
		zap.Int("spans", len(b.Spans)))

	l.cache.Set(name, b)
	return b.Clone(), nil
}

// DecodeFile reads the mesh at path with the library's decoder limits,
// detecting its byte order. It bypasses search paths and the cache.
func (l *Library) DecodeFile(path string) (*mesh.Batch, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Format{}, err
	}
	order, err := mesh.DetectByteOrder(data)
	if err != nil {
		return nil, Format{}, err
	}
	d := mesh.NewDecoder(bytes.NewReader(data), order)
	d.SetLimits(l.opts.Limits)
	b, err := d.Decode()
	if err != nil {
		return nil, Format{}, err
	}
	return b, Format{Version: d.Version(), Order: order}, nil
}

// Format describes how a mesh file was encoded.
type Format struct {
	Version uint32
	Order   binary.ByteOrder
}

// Save encodes b under name in the highest-priority search path and
// replaces any cached copy. It returns the written path.
func (l *Library) Save(name string, b *mesh.Batch) (string, error) {
	file := l.fileName(name)
	if !filepath.IsAbs(file) {
		l.mu.RLock()
		n := len(l.searchPaths)
		var dir string
		if n > 0 {
			dir = l.searchPaths[n-1]
		}
		l.mu.RUnlock()
		if n == 0 {
			return "", fmt.Errorf("saving %s: no search path", name)
		}
		file = filepath.Join(dir, file)
	}

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return "", fmt.Errorf("saving %s: %w", name, err)
	}
	if err := mesh.EncodeFile(file, b, l.opts.ByteOrder); err != nil {
		return "", fmt.Errorf("saving %s: %w", name, err)
	}

	l.cache.Set(name, b.Clone())
	l.log.Info("mesh saved",
		zap.String("name", name),
		zap.String("path", file),
		zap.String("material", b.MaterialID),
		zap.Int("vertices", len(b.Vertices)))
	return file, nil
}

// LoadAll loads every name. Failures are combined into one error; the
// batches that did load are returned in input order.
func (l *Library) LoadAll(names []string) ([]*mesh.Batch, error) {
	var (
		batches []*mesh.Batch
		errs    error
	)
	for _, name := range names {
		b, err := l.Load(name)
		if err != nil {
			l.log.Warn("mesh skipped", zap.String("name", name), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		batches = append(batches, b)
	}
	return batches, errs
}

// MergeAll loads names and merges each batch into the first earlier group
// that shares its mask and material. Groups are returned in the order their
// first member appeared.
func (l *Library) MergeAll(names []string) ([]*mesh.Batch, error) {
	batches, err := l.LoadAll(names)
	groups := Merge(batches)
	if len(groups) > 1 {
		l.log.Info("meshes merged into several groups",
			zap.Int("inputs", len(batches)),
			zap.Int("groups", len(groups)))
	}
	return groups, err
}

// Merge combines batches by mask and material. Index values are rebased so
// every merged span keeps drawing its own vertices. Inputs are not modified.
func Merge(batches []*mesh.Batch) []*mesh.Batch {
	var groups []*mesh.Batch
	for _, b := range batches {
		merged := false
		for _, g := range groups {
			if g.AppendGeometry(b) {
				merged = true
				break
			}
		}
		if !merged {
			groups = append(groups, b.Clone())
		}
	}
	return groups
}

// Names lists the mesh names visible through the search paths, without
// extension, sorted and deduplicated.
func (l *Library) Names() ([]string, error) {
	seen := make(map[string]bool)
	var errs error

	for _, dir := range l.SearchPaths() {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || (l.opts.Extension != "" && filepath.Ext(path) != l.opts.Extension) {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			seen[strings.TrimSuffix(filepath.ToSlash(rel), l.opts.Extension)] = true
			return nil
		})
		errs = multierr.Append(errs, err)
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	slices.Sort(names)
	return names, errs
}

// Stats returns cache statistics.
func (l *Library) Stats() Stats {
	return l.cache.Stats()
}

// Clear drops all cached batches.
func (l *Library) Clear() {
	l.cache.Clear()
}
