package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/bytepress/pack/codec"
	"github.com/pierrec/xxHash/xxHash32"
)

// A Reader reads the entries of an archive in order.
type Reader struct {
	Algorithm codec.Algorithm

	src       io.Reader
	remaining uint32
	entry     Entry
	body      *io.LimitedReader
}

// NewReader reads the archive header from src.
func NewReader(src io.Reader) (*Reader, error) {
	var hdr [5]byte
	if _, err := io.ReadFull(src, hdr[:]); err != nil {
		return nil, badArchive("header", err)
	}
	a, err := codec.Detect(hdr[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadArchive, err)
	}
	return &Reader{
		Algorithm: a,
		src:       src,
		remaining: binary.LittleEndian.Uint32(hdr[1:]),
	}, nil
}

func badArchive(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s", ErrBadArchive, what)
	}
	return err
}

// Next advances to the next entry, skipping whatever is left of the current
// one. It returns io.EOF after the last entry.
func (r *Reader) Next() (Entry, error) {
	if r.body != nil && r.body.N > 0 {
		if _, err := io.Copy(io.Discard, r.body); err != nil {
			return Entry{}, err
		}
		if r.body.N > 0 {
			return Entry{}, badArchive("entry", io.ErrUnexpectedEOF)
		}
	}
	r.body = nil
	if r.remaining == 0 {
		return Entry{}, io.EOF
	}

	var n [2]byte
	if _, err := io.ReadFull(r.src, n[:]); err != nil {
		return Entry{}, badArchive("entry header", err)
	}
	name := make([]byte, binary.LittleEndian.Uint16(n[:]))
	if _, err := io.ReadFull(r.src, name); err != nil {
		return Entry{}, badArchive("entry path", err)
	}
	var sizes [8]byte
	if _, err := io.ReadFull(r.src, sizes[:]); err != nil {
		return Entry{}, badArchive("entry header", err)
	}

	clean, err := cleanPath(string(name))
	if err != nil {
		return Entry{}, err
	}
	r.entry = Entry{
		Path:       clean,
		StoredSize: binary.LittleEndian.Uint32(sizes[0:]),
		Checksum:   binary.LittleEndian.Uint32(sizes[4:]),
	}
	r.body = &io.LimitedReader{R: r.src, N: int64(r.entry.StoredSize)}
	r.remaining--
	return r.entry, nil
}

// Open returns a reader for the decompressed contents of the current entry.
// When it reaches the end, it verifies the entry's checksum.
func (r *Reader) Open() (io.Reader, error) {
	if r.body == nil {
		return nil, errors.New("archive: Open called before Next")
	}
	dec, err := codec.NewReader(r.body, r.Algorithm)
	if err != nil {
		return nil, err
	}
	return &checkedReader{
		r:    dec,
		h:    xxHash32.New(0),
		want: r.entry.Checksum,
		path: r.entry.Path,
	}, nil
}

type checkedReader struct {
	r    io.Reader
	h    hash.Hash32
	want uint32
	path string
}

func (c *checkedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.h.Write(p[:n])
	if err == io.EOF && c.h.Sum32() != c.want {
		return n, fmt.Errorf("%w: %s", ErrChecksum, c.path)
	}
	return n, err
}

// List returns the entries in the archive read from src.
func List(src io.Reader) ([]Entry, error) {
	r, err := NewReader(src)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for {
		e, err := r.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}
}
