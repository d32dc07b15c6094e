// Package lz77 implements a byte-oriented LZ77 format with a bounded
// history window.
//
// A stream starts with the magic byte 0x4C. Each token after it is either a
// literal (tag 0, one byte) or a match (tag 1, offset byte, length byte)
// that copies length bytes starting offset bytes back in the output. Offsets
// are 1..255 and lengths 3..255; a match may overlap the bytes it produces.
//
// Compress with a *pack.Writer from NewWriter, and decompress with a Reader:
//
//	w := lz77.NewWriter(dst)
//	if _, err := io.Copy(w, src); err != nil {
//		return err
//	}
//	if err := w.Close(); err != nil {
//		return err
//	}
//
//	_, err := io.Copy(out, lz77.NewReader(compressed))
package lz77

import (
	"bytes"
	"io"

	"github.com/bytepress/pack"
)

// NewWriter returns a new pack.Writer that compresses data to w in LZ77
// format.
func NewWriter(w io.Writer) *pack.Writer {
	return &pack.Writer{
		Dest:        w,
		MatchFinder: &MatchFinder{},
		Encoder:     &Encoder{},
		BlockSize:   pack.DefaultBlockSize,
	}
}

// Compress reads src until EOF and writes it to dst as one LZ77 stream.
func Compress(dst io.Writer, src io.Reader) error {
	w := NewWriter(dst)
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

// Decompress decodes one LZ77 stream from src and writes the data to dst.
func Decompress(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, NewReader(src))
	return err
}

// Encode returns the LZ77 stream for src.
func Encode(src []byte) []byte {
	var b bytes.Buffer
	w := NewWriter(&b)
	// Writes to a bytes.Buffer don't fail.
	w.Write(src)
	w.Close()
	return b.Bytes()
}

// Decode decodes the LZ77 stream in src.
func Decode(src []byte) ([]byte, error) {
	return io.ReadAll(NewReader(bytes.NewReader(src)))
}
