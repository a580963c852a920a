package mesh

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// DecoderLimits bounds what a decoder will allocate for one batch.
type DecoderLimits struct {
	MaxVertices     uint32
	MaxIndices      uint32
	MaxSpans        uint32
	MaxStringLength uint32 // terminator included
}

// DefaultDecoderLimits returns limits generous enough for any authored asset.
func DefaultDecoderLimits() DecoderLimits {
	return DecoderLimits{
		MaxVertices:     1 << 24,
		MaxIndices:      1 << 26,
		MaxSpans:        1 << 20,
		MaxStringLength: 4096,
	}
}

// Decoder reads batches written by Encoder.
type Decoder struct {
	r       io.Reader
	order   binary.ByteOrder
	limits  DecoderLimits
	version uint32
}

// NewDecoder returns a decoder reading multi-byte fields in order.
func NewDecoder(r io.Reader, order binary.ByteOrder) *Decoder {
	return &Decoder{r: r, order: order, limits: DefaultDecoderLimits()}
}

// SetLimits replaces the allocation limits.
func (d *Decoder) SetLimits(l DecoderLimits) {
	d.limits = l
}

// Version returns the format version of the last batch header read, or 0
// before any header has been read.
func (d *Decoder) Version() uint32 {
	return d.version
}

// sized is implemented by readers that know how many bytes remain,
// such as *bytes.Reader and *bytes.Buffer.
type sized interface {
	Len() int
}

// Decode reads one batch. On error nothing is returned and the error names
// the field that failed. Attributes absent from the mask hold the values of
// DefaultVertex.
func (d *Decoder) Decode() (*Batch, error) {
	fr := &fieldReader{r: d.r, order: d.order}

	version, err := fr.u32("version")
	if err != nil {
		return nil, err
	}
	if version == 0 || version > CurrentVersion {
		return nil, fmt.Errorf("%w: %d (reader supports up to %d)", ErrUnsupportedVersion, version, CurrentVersion)
	}
	d.version = version

	material, err := fr.str("material id", d.limits.MaxStringLength)
	if err != nil {
		return nil, err
	}

	vertexCount, err := fr.u32("vertex count")
	if err != nil {
		return nil, err
	}
	indexCount, err := fr.u32("index count")
	if err != nil {
		return nil, err
	}
	spanCount, err := fr.u32("span count")
	if err != nil {
		return nil, err
	}
	if err := d.checkLimits(vertexCount, indexCount, spanCount); err != nil {
		return nil, err
	}

	mask, err := d.readMask(fr)
	if err != nil {
		return nil, err
	}

	need := uint64(vertexCount)*uint64(mask.VertexWireSize()) +
		uint64(indexCount)*4 +
		uint64(spanCount)*spanWireSize
	if s, ok := d.r.(sized); ok {
		if have := uint64(s.Len()); need > have {
			return nil, fmt.Errorf("%w: counts %d/%d/%d need %d bytes, %d remain",
				ErrCountMismatch, vertexCount, indexCount, spanCount, need, have)
		}
	} else {
		body, err := readBody(d.r, need)
		if err != nil {
			return nil, err
		}
		fr.r = body
	}

	b := &Batch{
		Mask:       mask,
		MaterialID: material,
		Vertices:   make([]Vertex, vertexCount),
		Indices:    make([]uint32, indexCount),
		Spans:      make([]DrawSpan, spanCount),
	}
	def := DefaultVertex()
	for i := range b.Vertices {
		b.Vertices[i] = def
	}

	var buf [32]byte
	for _, k := range mask.Kinds() {
		col := buf[:catalog[k].WireSize]
		get := columns[k].get
		for i := range b.Vertices {
			if err := fr.fill(col); err != nil {
				return nil, fieldError(err, fmt.Sprintf("vertex column %q (vertex %d)", k.Name(), i))
			}
			get(col, d.order, &b.Vertices[i])
		}
	}

	for i := range b.Indices {
		if err := fr.fill(fr.buf[:]); err != nil {
			return nil, fieldError(err, fmt.Sprintf("index %d", i))
		}
		b.Indices[i] = d.order.Uint32(fr.buf[:])
	}

	for i := range b.Spans {
		if b.Spans[i], err = d.readSpan(fr, i); err != nil {
			return nil, err
		}
	}

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBatch, err)
	}
	return b, nil
}

// readBody buffers the n bytes that follow the header. The buffer grows
// with the data received, never ahead of it.
func readBody(r io.Reader, n uint64) (*bytes.Reader, error) {
	var buf bytes.Buffer
	got, err := io.CopyN(&buf, r, int64(n))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: reading batch body (%d of %d bytes)", ErrTruncated, got, n)
		}
		return nil, fmt.Errorf("reading batch body: %w", err)
	}
	return bytes.NewReader(buf.Bytes()), nil
}

func (d *Decoder) checkLimits(vertices, indices, spans uint32) error {
	switch {
	case vertices > d.limits.MaxVertices:
		return fmt.Errorf("%w: %d vertices exceeds limit %d", ErrCountMismatch, vertices, d.limits.MaxVertices)
	case indices > d.limits.MaxIndices:
		return fmt.Errorf("%w: %d indices exceeds limit %d", ErrCountMismatch, indices, d.limits.MaxIndices)
	case spans > d.limits.MaxSpans:
		return fmt.Errorf("%w: %d spans exceeds limit %d", ErrCountMismatch, spans, d.limits.MaxSpans)
	}
	return nil
}

// readMask reads attribute names up to the empty terminator. It stops at
// the first unknown name without touching the bytes that follow it.
func (d *Decoder) readMask(fr *fieldReader) (AttributeMask, error) {
	var mask AttributeMask
	for i := 0; ; i++ {
		name, err := fr.str(fmt.Sprintf("attribute name %d", i), d.limits.MaxStringLength)
		if err != nil {
			return 0, err
		}
		if name == "" {
			break
		}
		if err := addAttributeName(&mask, name); err != nil {
			return 0, fmt.Errorf("reading attribute name %d: %w", i, err)
		}
	}
	if mask.Empty() {
		return 0, fmt.Errorf("%w: empty attribute mask", ErrCorruptBatch)
	}
	return mask, nil
}

func (d *Decoder) readSpan(fr *fieldReader, i int) (DrawSpan, error) {
	var buf [spanWireSize]byte
	if err := fr.fill(buf[:]); err != nil {
		return DrawSpan{}, fieldError(err, fmt.Sprintf("span %d", i))
	}
	topology := d.order.Uint32(buf[0:])
	flag := d.order.Uint32(buf[12:])

	t := Topology(topology)
	if !t.Valid() {
		return DrawSpan{}, fmt.Errorf("%w: span %d topology %d", ErrUnknownTopology, i, topology)
	}
	if flag > 1 {
		return DrawSpan{}, fmt.Errorf("%w: span %d uses-index-buffer flag %d", ErrCorruptBatch, i, flag)
	}
	return DrawSpan{
		Topology:        t,
		StartIndex:      d.order.Uint32(buf[4:]),
		Count:           d.order.Uint32(buf[8:]),
		UsesIndexBuffer: flag == 1,
	}, nil
}

// fieldReader reads fixed-width fields and reports which one failed.
type fieldReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [4]byte
}

func (fr *fieldReader) fill(p []byte) error {
	_, err := io.ReadFull(fr.r, p)
	return err
}

func (fr *fieldReader) full(p []byte, field string) error {
	if err := fr.fill(p); err != nil {
		return fieldError(err, field)
	}
	return nil
}

// fieldError attaches the field name to a read error. A short stream is
// malformed input; anything else is an I/O failure passed through.
func fieldError(err error, field string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: reading %s", ErrTruncated, field)
	}
	return fmt.Errorf("reading %s: %w", field, err)
}

func (fr *fieldReader) u32(field string) (uint32, error) {
	if err := fr.full(fr.buf[:], field); err != nil {
		return 0, err
	}
	return fr.order.Uint32(fr.buf[:]), nil
}

// str reads a string written by fieldWriter.str. A zero length yields "".
func (fr *fieldReader) str(field string, limit uint32) (string, error) {
	n, err := fr.u32(field + " length")
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	if n > limit {
		return "", fmt.Errorf("%w: %s is %d bytes, limit %d", ErrStringTooLong, field, n, limit)
	}
	if s, ok := fr.r.(sized); ok && uint64(n) > uint64(s.Len()) {
		return "", fmt.Errorf("%w: reading %s", ErrTruncated, field)
	}
	p := make([]byte, n)
	if err := fr.full(p, field); err != nil {
		return "", err
	}
	if p[n-1] == 0 {
		p = p[:n-1]
	}
	return string(p), nil
}

// addAttributeName adds one wire name to mask.
func addAttributeName(mask *AttributeMask, name string) error {
	k, ok := KindByName(name)
	if !ok {
		return &UnknownAttributeError{Name: name}
	}
	if mask.IsSet(k) {
		return fmt.Errorf("%w: %q", ErrDuplicateAttribute, name)
	}
	mask.Set(k)
	return nil
}

// Decode reads one batch from r using order.
func Decode(r io.Reader, order binary.ByteOrder) (*Batch, error) {
	return NewDecoder(r, order).Decode()
}

// Unmarshal decodes a batch from data using order.
func Unmarshal(data []byte, order binary.ByteOrder) (*Batch, error) {
	return Decode(bytes.NewReader(data), order)
}

// DetectByteOrder inspects the version word of an encoded batch and returns
// the only byte order under which it is a supported version.
func DetectByteOrder(data []byte) (binary.ByteOrder, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: reading version", ErrTruncated)
	}
	le := binary.LittleEndian.Uint32(data)
	be := binary.BigEndian.Uint32(data)
	leOK := le >= FormatV1 && le <= CurrentVersion
	beOK := be >= FormatV1 && be <= CurrentVersion
	switch {
	case leOK && !beOK:
		return binary.LittleEndian, nil
	case beOK && !leOK:
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("%w: version word % x", ErrUnknownByteOrder, data[:4])
	}
}

// DecodeFile reads a batch from path, detecting its byte order.
func DecodeFile(path string) (*Batch, binary.ByteOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading mesh file: %w", err)
	}
	order, err := DetectByteOrder(data)
	if err != nil {
		return nil, nil, err
	}
	b, err := Unmarshal(data, order)
	if err != nil {
		return nil, nil, err
	}
	return b, order, nil
}
