package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	gomath "math"
	"os"

	"github.com/Faultbox/meshforge/pkg/math"
)

// Format versions.
const (
	FormatV1 uint32 = 1

	// CurrentVersion is the version written by Encode and the newest one
	// Decode accepts.
	CurrentVersion = FormatV1
)

// spanWireSize is four u32 fields.
const spanWireSize = 16

// columnCodec converts one attribute of one vertex to and from its wire
// bytes. buf is exactly the attribute's WireSize long.
type columnCodec struct {
	put func(buf []byte, o binary.ByteOrder, v *Vertex)
	get func(buf []byte, o binary.ByteOrder, v *Vertex)
}

// columns is indexed by AttributeKind.
var columns = [numAttributeKinds]columnCodec{
	Position: {
		func(buf []byte, o binary.ByteOrder, v *Vertex) { putVec3(buf, o, v.Position) },
		func(buf []byte, o binary.ByteOrder, v *Vertex) { v.Position = getVec3(buf, o) },
	},
	Color: {
		func(buf []byte, _ binary.ByteOrder, v *Vertex) { copy(buf, v.Color[:]) },
		func(buf []byte, _ binary.ByteOrder, v *Vertex) { copy(v.Color[:], buf) },
	},
	UV0: uvColumn(0),
	UV1: uvColumn(1),
	UV2: uvColumn(2),
	UV3: uvColumn(3),
	Tangent: {
		func(buf []byte, o binary.ByteOrder, v *Vertex) { putVec3(buf, o, v.Tangent) },
		func(buf []byte, o binary.ByteOrder, v *Vertex) { v.Tangent = getVec3(buf, o) },
	},
	Bitangent: {
		func(buf []byte, o binary.ByteOrder, v *Vertex) { putVec3(buf, o, v.Bitangent) },
		func(buf []byte, o binary.ByteOrder, v *Vertex) { v.Bitangent = getVec3(buf, o) },
	},
	Normal: {
		func(buf []byte, o binary.ByteOrder, v *Vertex) { putVec3(buf, o, v.Normal) },
		func(buf []byte, o binary.ByteOrder, v *Vertex) { v.Normal = getVec3(buf, o) },
	},
	SkinWeights: {
		func(buf []byte, o binary.ByteOrder, v *Vertex) {
			for i := 0; i < 4; i++ {
				putF32(buf[i*4:], o, v.Weights[i])
				o.PutUint32(buf[16+i*4:], v.Joints[i])
			}
		},
		func(buf []byte, o binary.ByteOrder, v *Vertex) {
			for i := 0; i < 4; i++ {
				v.Weights[i] = getF32(buf[i*4:], o)
				v.Joints[i] = o.Uint32(buf[16+i*4:])
			}
		},
	},
}

func uvColumn(ch int) columnCodec {
	return columnCodec{
		func(buf []byte, o binary.ByteOrder, v *Vertex) {
			putF32(buf, o, v.UV[ch].X)
			putF32(buf[4:], o, v.UV[ch].Y)
		},
		func(buf []byte, o binary.ByteOrder, v *Vertex) {
			v.UV[ch] = math.Vec2{X: getF32(buf, o), Y: getF32(buf[4:], o)}
		},
	}
}

func putF32(buf []byte, o binary.ByteOrder, f float32) {
	o.PutUint32(buf, gomath.Float32bits(f))
}

func getF32(buf []byte, o binary.ByteOrder) float32 {
	return gomath.Float32frombits(o.Uint32(buf))
}

func putVec3(buf []byte, o binary.ByteOrder, v math.Vec3) {
	putF32(buf, o, v.X)
	putF32(buf[4:], o, v.Y)
	putF32(buf[8:], o, v.Z)
}

func getVec3(buf []byte, o binary.ByteOrder) math.Vec3 {
	return math.Vec3{X: getF32(buf, o), Y: getF32(buf[4:], o), Z: getF32(buf[8:], o)}
}

// Encoder writes batches in the current format version.
type Encoder struct {
	w     io.Writer
	order binary.ByteOrder
}

// NewEncoder returns an encoder writing multi-byte fields in order.
func NewEncoder(w io.Writer, order binary.ByteOrder) *Encoder {
	return &Encoder{w: w, order: order}
}

// Encode writes b. The batch must pass Validate.
//
// Layout: version, material id, vertex/index/span counts, attribute names
// terminated by an empty string, one column per masked attribute in catalog
// order, indices, spans.
func (e *Encoder) Encode(b *Batch) error {
	if err := b.Validate(); err != nil {
		return err
	}

	fw := &fieldWriter{w: bufio.NewWriter(e.w), order: e.order}

	fw.u32(CurrentVersion)
	fw.str(b.MaterialID)
	fw.u32(uint32(len(b.Vertices)))
	fw.u32(uint32(len(b.Indices)))
	fw.u32(uint32(len(b.Spans)))

	kinds := b.Mask.Kinds()
	for _, k := range kinds {
		fw.str(k.Name())
	}
	fw.u32(0) // empty-string terminator

	var buf [32]byte
	for _, k := range kinds {
		col := buf[:catalog[k].WireSize]
		put := columns[k].put
		for i := range b.Vertices {
			put(col, e.order, &b.Vertices[i])
			fw.bytes(col)
		}
	}

	for _, idx := range b.Indices {
		fw.u32(idx)
	}

	for _, s := range b.Spans {
		fw.u32(uint32(s.Topology))
		fw.u32(s.StartIndex)
		fw.u32(s.Count)
		fw.bool32(s.UsesIndexBuffer)
	}

	return fw.flush()
}

// fieldWriter writes fixed-width fields and keeps the first error.
type fieldWriter struct {
	w     *bufio.Writer
	order binary.ByteOrder
	buf   [4]byte
	err   error
}

func (fw *fieldWriter) bytes(p []byte) {
	if fw.err != nil {
		return
	}
	_, fw.err = fw.w.Write(p)
}

func (fw *fieldWriter) u32(v uint32) {
	fw.order.PutUint32(fw.buf[:], v)
	fw.bytes(fw.buf[:])
}

func (fw *fieldWriter) bool32(v bool) {
	if v {
		fw.u32(1)
	} else {
		fw.u32(0)
	}
}

// str writes a length-prefixed, NUL-terminated string. The length counts the
// terminator, so only the list terminator has length zero.
func (fw *fieldWriter) str(s string) {
	if fw.err == nil && uint64(len(s))+1 > gomath.MaxUint32 {
		fw.err = fmt.Errorf("%w: string of %d bytes", ErrTooLarge, len(s))
		return
	}
	fw.u32(uint32(len(s) + 1))
	if fw.err != nil {
		return
	}
	if _, err := fw.w.WriteString(s); err != nil {
		fw.err = err
		return
	}
	fw.err = fw.w.WriteByte(0)
}

func (fw *fieldWriter) flush() error {
	if fw.err != nil {
		return fw.err
	}
	return fw.w.Flush()
}

// Encode writes b to w using order.
func Encode(w io.Writer, b *Batch, order binary.ByteOrder) error {
	return NewEncoder(w, order).Encode(b)
}

// Marshal returns the encoded form of b.
func Marshal(b *Batch, order binary.ByteOrder) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, b, order); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeFile writes b to path.
func EncodeFile(path string, b *Batch, order binary.ByteOrder) error {
	data, err := Marshal(b, order)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing mesh file: %w", err)
	}
	return nil
}
