// Package codec picks a compression format by name or by the magic byte at
// the start of a stream.
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/bytepress/pack"
	"github.com/bytepress/pack/lz77"
	"github.com/bytepress/pack/rle"
)

// An Algorithm names one of the stream formats.
type Algorithm string

const (
	LZ77 Algorithm = "lz77"
	RLE  Algorithm = "rle"
)

var ErrUnknownAlgorithm = errors.New("codec: unknown compression algorithm")

// ParseAlgorithm accepts the names "lz77" (or "lz") and "rle".
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "lz77", "lz":
		return LZ77, nil
	case "rle":
		return RLE, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Magic returns the byte that starts every stream in format a,
// or 0 if a is not a known algorithm.
func (a Algorithm) Magic() byte {
	switch a {
	case LZ77:
		return lz77.Magic
	case RLE:
		return rle.Magic
	}
	return 0
}

// Detect returns the algorithm whose streams start with magic.
func Detect(magic byte) (Algorithm, error) {
	switch magic {
	case lz77.Magic:
		return LZ77, nil
	case rle.Magic:
		return RLE, nil
	}
	return "", fmt.Errorf("%w: magic byte 0x%02x", ErrUnknownAlgorithm, magic)
}

// Options tune a Writer. The zero value gives the defaults.
type Options struct {
	// BlockSize overrides pack.DefaultBlockSize when non-zero.
	BlockSize int

	// Fast selects lz77.FastMatchFinder for LZ77. RLE ignores it.
	Fast bool
}

// NewWriter returns a Writer that compresses to dst in format a.
func NewWriter(dst io.Writer, a Algorithm, opts Options) (*pack.Writer, error) {
	var w *pack.Writer
	switch a {
	case LZ77:
		w = lz77.NewWriter(dst)
		if opts.Fast {
			w.MatchFinder = &lz77.FastMatchFinder{}
		}
	case RLE:
		w = rle.NewWriter(dst)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, a)
	}
	if opts.BlockSize > 0 {
		w.BlockSize = opts.BlockSize
	}
	return w, nil
}

// NewReader returns a reader that decompresses a stream in format a.
func NewReader(src io.Reader, a Algorithm) (io.Reader, error) {
	switch a {
	case LZ77:
		return lz77.NewReader(src), nil
	case RLE:
		return rle.NewReader(src), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, a)
}

// NewDetectingReader looks at the first byte of src to find out which
// format it is in, and returns a reader that decompresses it.
// An empty src is reported as pack.ErrMagicMismatch.
func NewDetectingReader(src io.Reader) (io.Reader, Algorithm, error) {
	br := bufio.NewReader(src)
	b, err := br.Peek(1)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, "", &pack.FormatError{Format: "codec", Kind: pack.ErrMagicMismatch, Detail: "empty stream"}
		}
		return nil, "", err
	}
	a, err := Detect(b[0])
	if err != nil {
		return nil, "", err
	}
	r, err := NewReader(br, a)
	return r, a, err
}
