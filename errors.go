package pack

import (
	"errors"
	"fmt"
)

// Kinds of malformed streams. Decoders wrap them in a *FormatError, so test
// for them with errors.Is.
var (
	ErrMagicMismatch    = errors.New("magic byte mismatch")
	ErrTruncatedToken   = errors.New("truncated token")
	ErrInvalidToken     = errors.New("invalid token tag")
	ErrOffsetOutOfRange = errors.New("match offset out of range")
	ErrZeroLengthMatch  = errors.New("zero-length match")
	ErrShortMatch       = errors.New("match shorter than minimum length")
)

// A FormatError reports a malformed compressed stream.
type FormatError struct {
	Format string // name of the format being decoded, e.g. "lz77"
	Kind   error  // one of the Err... values above, or a format-specific one
	Offset int64  // position in the compressed stream of the bad token
	Detail string // optional extra context
}

func (e *FormatError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v at byte %d (%s)", e.Format, e.Kind, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%s: %v at byte %d", e.Format, e.Kind, e.Offset)
}

func (e *FormatError) Unwrap() error {
	return e.Kind
}
