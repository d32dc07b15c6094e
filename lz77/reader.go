package lz77

import (
	"errors"
	"fmt"
	"io"

	"github.com/bytepress/pack"
)

// outputChunk is how many decoded bytes a Reader collects before handing
// them to the caller.
const outputChunk = 1 << 14

// A Reader decompresses an LZ77 stream.
//
// Errors in the stream are reported as *pack.FormatError; the Reader stops
// at the first one. Data decoded before the error may already have been
// returned.
type Reader struct {
	src    *pack.ByteCounter
	window *Window

	started bool
	out     []byte // scratch buffer for decoded bytes
	toRead  []byte // bytes to return from Read
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
	if z.window == nil {
		z.window = NewWindow(WindowSize)
	} else {
		z.window.Reset()
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
		Format: "lz77",
		Kind:   kind,
		Offset: offset,
		Detail: detail,
	}
}

// field reads one byte of the token that started at tokenStart.
func (z *Reader) field(tokenStart int64) (byte, error) {
	b, err := z.src.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, z.formatError(pack.ErrTruncatedToken, tokenStart, "")
		}
		return 0, err
	}
	return b, nil
}

func (z *Reader) readHeader() error {
	b, err := z.src.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return z.formatError(pack.ErrMagicMismatch, 0, "empty stream")
		}
		return err
	}
	if b != Magic {
		return z.formatError(pack.ErrMagicMismatch, 0, fmt.Sprintf("got 0x%02x, want 0x%02x", b, Magic))
	}
	return nil
}

// decode decodes tokens into z.out until it holds at least outputChunk
// bytes or the stream ends.
func (z *Reader) decode() {
	z.out = z.out[:0]
	defer func() {
		z.toRead = z.out
	}()

	if !z.started {
		z.started = true
		if err := z.readHeader(); err != nil {
			z.err = err
			return
		}
	}

	for len(z.out) < outputChunk {
		start := z.src.Count()
		tag, err := z.src.ReadByte()
		if err != nil {
			// Running out of input between tokens is the normal end.
			z.err = err
			return
		}

		switch tag {
		case tagLiteral:
			b, err := z.field(start)
			if err != nil {
				z.err = err
				return
			}
			z.out = append(z.out, b)
			z.window.Push(b)

		case tagMatch:
			offset, err := z.field(start)
			if err != nil {
				z.err = err
				return
			}
			length, err := z.field(start)
			if err != nil {
				z.err = err
				return
			}
			if err := z.copyMatch(start, int(offset), int(length)); err != nil {
				z.err = err
				return
			}

		default:
			z.err = z.formatError(pack.ErrInvalidToken, start, fmt.Sprintf("tag %d", tag))
			return
		}
	}
}

// copyMatch replays length bytes from offset bytes back. Each byte goes into
// the window before the next one is read, so a match may copy bytes it has
// produced itself (offset < length).
func (z *Reader) copyMatch(tokenStart int64, offset, length int) error {
	if offset == 0 || offset > z.window.Len() {
		return z.formatError(pack.ErrOffsetOutOfRange, tokenStart,
			fmt.Sprintf("offset %d, window holds %d bytes", offset, z.window.Len()))
	}
	if length == 0 {
		return z.formatError(pack.ErrZeroLengthMatch, tokenStart, "")
	}
	if length < MinMatchLength {
		return z.formatError(pack.ErrShortMatch, tokenStart, fmt.Sprintf("length %d", length))
	}

	for i := 0; i < length; i++ {
		b, err := z.window.At(offset)
		if err != nil {
			return z.formatError(err, tokenStart, "")
		}
		z.out = append(z.out, b)
		z.window.Push(b)
	}
	return nil
}
