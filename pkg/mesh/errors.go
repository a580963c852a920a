package mesh

import (
	"errors"
	"fmt"
)

// Root error kinds. Every error returned by this package wraps exactly one.
var (
	// ErrContractViolation marks a programming bug on the caller's side:
	// a wrong state-machine transition or an argument the caller must never pass.
	ErrContractViolation = errors.New("mesh: contract violation")

	// ErrMalformed marks recoverable bad input while decoding a stream.
	ErrMalformed = errors.New("mesh: malformed input")
)

// Caller-contract violations.
var (
	ErrSpanAlreadyOpen   = fmt.Errorf("%w: span already open", ErrContractViolation)
	ErrNoOpenSpan        = fmt.Errorf("%w: no open span", ErrContractViolation)
	ErrZeroSubdivisions  = fmt.Errorf("%w: surface patch needs at least one subdivision per axis", ErrContractViolation)
	ErrInvalidTopology   = fmt.Errorf("%w: invalid topology", ErrContractViolation)
	ErrInvalidUVChannel  = fmt.Errorf("%w: uv channel out of range", ErrContractViolation)
	ErrEmptyMask         = fmt.Errorf("%w: empty attribute mask", ErrContractViolation)
	ErrSpanOutOfRange    = fmt.Errorf("%w: span exceeds sequence length", ErrContractViolation)
	ErrIndexOutOfRange   = fmt.Errorf("%w: index references missing vertex", ErrContractViolation)
	ErrIncompatibleBatch = fmt.Errorf("%w: batches differ in mask or material", ErrContractViolation)
	ErrNilSurface        = fmt.Errorf("%w: nil surface function", ErrContractViolation)
	ErrTooLarge          = fmt.Errorf("%w: batch exceeds 32-bit limits", ErrContractViolation)
)

// Malformed-input errors.
var (
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported format version", ErrMalformed)
	ErrUnknownAttribute   = fmt.Errorf("%w: unknown attribute", ErrMalformed)
	ErrDuplicateAttribute = fmt.Errorf("%w: duplicate attribute", ErrMalformed)
	ErrTruncated          = fmt.Errorf("%w: truncated stream", ErrMalformed)
	ErrCountMismatch      = fmt.Errorf("%w: declared count inconsistent with stream", ErrMalformed)
	ErrStringTooLong      = fmt.Errorf("%w: string too long", ErrMalformed)
	ErrUnknownTopology    = fmt.Errorf("%w: unknown topology", ErrMalformed)
	ErrCorruptBatch       = fmt.Errorf("%w: inconsistent batch", ErrMalformed)
	ErrUnknownByteOrder   = fmt.Errorf("%w: cannot determine byte order", ErrMalformed)
)

// UnknownAttributeError reports an attribute wire name that is not in the catalog.
// It matches ErrUnknownAttribute and ErrMalformed under errors.Is.
type UnknownAttributeError struct {
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownAttribute, e.Name)
}

// Is reports whether target is one of the sentinels this error stands for.
func (e *UnknownAttributeError) Is(target error) bool {
	return target == ErrUnknownAttribute || target == ErrMalformed
}

// IsContractViolation reports whether err is a caller bug rather than bad data.
func IsContractViolation(err error) bool {
	return errors.Is(err, ErrContractViolation)
}

// IsMalformed reports whether err stems from bad input data.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformed)
}

func spanError(kind error, i int, s DrawSpan) error {
	return fmt.Errorf("%w: span %d (%s)", kind, i, s)
}

func indexError(i int, idx uint32, vertexCount int) error {
	return fmt.Errorf("%w: index %d = %d, vertex count %d", ErrIndexOutOfRange, i, idx, vertexCount)
}
