// Package archive packs several files into one stream, compressing each
// file separately with one of the codec formats.
//
// Layout (all integers little-endian):
//
//	magic byte of the algorithm
//	uint32  number of entries
//	for each entry:
//		uint16  path length, then the slash-separated relative path
//		uint32  stored length
//		uint32  xxHash32 (seed 0) of the uncompressed content
//		stored bytes: one complete compressed stream
package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strings"

	"github.com/bytepress/pack/codec"
	"github.com/pierrec/xxHash/xxHash32"
)

var (
	ErrBadArchive = errors.New("archive: malformed archive")
	ErrChecksum   = errors.New("archive: checksum mismatch")
	ErrUnsafePath = errors.New("archive: unsafe entry path")
)

// An Entry describes one file in an archive.
type Entry struct {
	Path       string
	StoredSize uint32
	Checksum   uint32
}

// A Writer writes an archive with a known number of entries.
type Writer struct {
	dst       io.Writer
	algorithm codec.Algorithm
	remaining int

	buf bytes.Buffer
	enc interface {
		io.WriteCloser
		Reset(io.Writer)
	}
}

// NewWriter writes the archive header for count entries to dst and returns
// a Writer for adding them. Each entry is compressed with opts.
func NewWriter(dst io.Writer, a codec.Algorithm, count int, opts codec.Options) (*Writer, error) {
	if count < 0 || int64(count) > math.MaxUint32 {
		return nil, fmt.Errorf("archive: bad entry count %d", count)
	}
	enc, err := codec.NewWriter(nil, a, opts)
	if err != nil {
		return nil, err
	}

	var hdr [5]byte
	hdr[0] = a.Magic()
	binary.LittleEndian.PutUint32(hdr[1:], uint32(count))
	if _, err := dst.Write(hdr[:]); err != nil {
		return nil, err
	}
	return &Writer{
		dst:       dst,
		algorithm: a,
		remaining: count,
		enc:       enc,
	}, nil
}

// Add compresses the contents of r and writes them as the entry name.
func (w *Writer) Add(name string, r io.Reader) error {
	if w.remaining == 0 {
		return errors.New("archive: more entries than announced")
	}
	name, err := cleanPath(name)
	if err != nil {
		return err
	}
	if len(name) > math.MaxUint16 {
		return fmt.Errorf("archive: path too long: %s", name)
	}

	w.buf.Reset()
	w.enc.Reset(&w.buf)
	h := xxHash32.New(0)
	if _, err := io.Copy(io.MultiWriter(w.enc, h), r); err != nil {
		return err
	}
	if err := w.enc.Close(); err != nil {
		return err
	}
	if int64(w.buf.Len()) > math.MaxUint32 {
		return fmt.Errorf("archive: %s is too large", name)
	}

	hdr := binary.LittleEndian.AppendUint16(nil, uint16(len(name)))
	hdr = append(hdr, name...)
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(w.buf.Len()))
	hdr = binary.LittleEndian.AppendUint32(hdr, h.Sum32())
	if _, err := w.dst.Write(hdr); err != nil {
		return err
	}
	if _, err := w.dst.Write(w.buf.Bytes()); err != nil {
		return err
	}
	w.remaining--
	return nil
}

// Close checks that all the announced entries were written.
func (w *Writer) Close() error {
	if w.remaining != 0 {
		return fmt.Errorf("archive: %d entries missing", w.remaining)
	}
	return nil
}

// cleanPath turns name into a clean relative slash-separated path, and
// rejects paths that would escape the extraction directory.
func cleanPath(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if name == "" || path.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return clean, nil
}
