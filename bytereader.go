package pack

import (
	"bufio"
	"io"
)

// A ByteCounter reads single bytes from an underlying reader and counts
// them, so that decoders can report where in the stream an error occurred.
type ByteCounter struct {
	r io.ByteReader
	n int64
}

// NewByteCounter returns a ByteCounter reading from r. If r is not already
// an io.ByteReader, it is wrapped in a bufio.Reader.
func NewByteCounter(r io.Reader) *ByteCounter {
	c := new(ByteCounter)
	c.Reset(r)
	return c
}

// Reset switches c to reading from r and zeroes the count.
func (c *ByteCounter) Reset(r io.Reader) {
	if br, ok := r.(io.ByteReader); ok {
		c.r = br
	} else {
		c.r = bufio.NewReader(r)
	}
	c.n = 0
}

// ReadByte reads a byte and increments the count.
func (c *ByteCounter) ReadByte() (byte, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		return 0, err
	}
	c.n++
	return b, nil
}

// Count returns the number of bytes read so far.
func (c *ByteCounter) Count() int64 {
	return c.n
}
