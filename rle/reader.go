package rle

import (
	"errors"
	"fmt"
	"io"

	"github.com/bytepress/pack"
)

const outputChunk = 1 << 14

// A Reader decompresses an RLE stream. Errors in the stream are reported as
// *pack.FormatError.
type Reader struct {
	src *pack.ByteCounter

	started bool
	out     []byte
	toRead  []byte
	err     error
}

// NewReader returns a Reader that decompresses r.
func NewReader(r io.Reader) *Reader {
	z := new(Reader)
	z.Reset(r)
	return z
}

// Reset discards z's state and makes it read a new stream from r.
func (z *Reader) Reset(r io.Reader) {
	if z.src == nil {
		z.src = pack.NewByteCounter(r)
	} else {
		z.src.Reset(r)
	}
	z.started = false
	z.out = z.out[:0]
	z.toRead = nil
	z.err = nil
}

func (z *Reader) Read(p []byte) (int, error) {
	for {
		if len(z.toRead) > 0 {
			n := copy(p, z.toRead)
			z.toRead = z.toRead[n:]
			return n, nil
		}
		if z.err != nil {
			return 0, z.err
		}
		z.decode()
	}
}

func (z *Reader) formatError(kind error, offset int64, detail string) error {
	return &pack.FormatError{
		Format: "rle",
		Kind:   kind,
		Offset: offset,
		Detail: detail,
	}
}

func (z *Reader) decode() {
	z.out = z.out[:0]
	defer func() {
		z.toRead = z.out
	}()

	if !z.started {
		z.started = true
		b, err := z.src.ReadByte()
		switch {
		case errors.Is(err, io.EOF):
			z.err = z.formatError(pack.ErrMagicMismatch, 0, "empty stream")
			return
		case err != nil:
			z.err = err
			return
		case b != Magic:
			z.err = z.formatError(pack.ErrMagicMismatch, 0, fmt.Sprintf("got 0x%02x, want 0x%02x", b, Magic))
			return
		}
	}

	for len(z.out) < outputChunk {
		start := z.src.Count()
		b, err := z.src.ReadByte()
		if err != nil {
			z.err = err
			return
		}
		count, err := z.src.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				err = z.formatError(pack.ErrTruncatedToken, start, "missing count")
			}
			z.err = err
			return
		}
		if count == 0 {
			z.err = z.formatError(ErrZeroRun, start, "")
			return
		}
		for i := 0; i < int(count); i++ {
			z.out = append(z.out, b)
		}
	}
}
