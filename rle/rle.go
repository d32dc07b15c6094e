// Package rle implements run-length encoding as a peer format of lz77.
//
// A stream is the magic byte 0x52 followed by (byte, count) pairs, with
// count in 1..255. Longer runs are split across several pairs.
package rle

import (
	"bytes"
	"errors"
	"io"

	"github.com/bytepress/pack"
)

const (
	Magic  = 0x52 // 'R'
	MaxRun = 255
)

// ErrZeroRun means a pair in the stream had a count of zero.
var ErrZeroRun = errors.New("zero-length run")

// An Encoder implements the pack.Encoder interface, writing run-length
// encoded data. It ignores the matches it is given; runs are found in src
// directly, and a run may continue from one block into the next.
type Encoder struct {
	wroteHeader bool
	run         byte
	count       int
}

func (e *Encoder) Reset() {
	*e = Encoder{}
}

func (e *Encoder) Encode(dst []byte, src []byte, matches []pack.Match, lastBlock bool) []byte {
	if !e.wroteHeader {
		dst = append(dst, Magic)
		e.wroteHeader = true
	}

	for _, b := range src {
		if e.count > 0 && b == e.run && e.count < MaxRun {
			e.count++
			continue
		}
		if e.count > 0 {
			dst = append(dst, e.run, byte(e.count))
		}
		e.run, e.count = b, 1
	}

	if lastBlock && e.count > 0 {
		dst = append(dst, e.run, byte(e.count))
		e.count = 0
	}
	return dst
}

// NewWriter returns a new pack.Writer that compresses data to w with
// run-length encoding.
func NewWriter(w io.Writer) *pack.Writer {
	return &pack.Writer{
		Dest:        w,
		MatchFinder: pack.NoMatch{},
		Encoder:     &Encoder{},
		BlockSize:   pack.DefaultBlockSize,
	}
}

// Compress reads src until EOF and writes it to dst as one RLE stream.
func Compress(dst io.Writer, src io.Reader) error {
	w := NewWriter(dst)
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

// Decompress decodes one RLE stream from src and writes the data to dst.
func Decompress(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, NewReader(src))
	return err
}

// Encode returns the RLE stream for src.
func Encode(src []byte) []byte {
	var e Encoder
	return e.Encode(nil, src, nil, true)
}

// Decode decodes the RLE stream in src.
func Decode(src []byte) ([]byte, error) {
	return io.ReadAll(NewReader(bytes.NewReader(src)))
}
