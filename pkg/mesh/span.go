package mesh

import "fmt"

// Topology says how a span's vertices are assembled into primitives.
type Topology uint32

// Supported topologies. Values are part of the file format.
const (
	Points        Topology = 0
	Lines         Topology = 1
	LineStrip     Topology = 2
	Triangles     Topology = 3
	TriangleStrip Topology = 4
	TriangleFan   Topology = 5
)

// String returns a human-readable topology name.
func (t Topology) String() string {
	switch t {
	case Points:
		return "Points"
	case Lines:
		return "Lines"
	case LineStrip:
		return "LineStrip"
	case Triangles:
		return "Triangles"
	case TriangleStrip:
		return "TriangleStrip"
	case TriangleFan:
		return "TriangleFan"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Valid reports whether t is a known topology.
func (t Topology) Valid() bool {
	return t <= TriangleFan
}

// DrawSpan is a contiguous run of vertices, or of indices when
// UsesIndexBuffer is set, drawn with one topology.
type DrawSpan struct {
	Topology        Topology
	StartIndex      uint32
	Count           uint32
	UsesIndexBuffer bool
}

// End returns the exclusive end of the span.
func (s DrawSpan) End() uint64 {
	return uint64(s.StartIndex) + uint64(s.Count)
}

// String formats the span for diagnostics.
func (s DrawSpan) String() string {
	src := "vertices"
	if s.UsesIndexBuffer {
		src = "indices"
	}
	return fmt.Sprintf("%s[%d:%d] %s", src, s.StartIndex, s.End(), s.Topology)
}
