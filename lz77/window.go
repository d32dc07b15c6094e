package lz77

import "github.com/bytepress/pack"

// A Window holds the most recent bytes of a stream, up to a fixed capacity.
// Pushing a byte into a full window evicts the oldest one.
//
// The bytes are kept contiguous in a buffer twice the capacity, which is
// compacted when it fills up, so Push is amortized O(1) and At is O(1).
type Window struct {
	size int
	buf  []byte
}

// NewWindow returns an empty Window that holds up to size bytes.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{
		size: size,
		buf:  make([]byte, 0, 2*size),
	}
}

// Push appends b, evicting the oldest byte if the window is full.
func (w *Window) Push(b byte) {
	if len(w.buf) == 2*w.size {
		w.compact()
	}
	w.buf = append(w.buf, b)
}

// Write pushes all of p. It never fails.
func (w *Window) Write(p []byte) (int, error) {
	n := len(p)
	if len(p) >= w.size {
		w.buf = append(w.buf[:0], p[len(p)-w.size:]...)
		return n, nil
	}
	if len(w.buf)+len(p) > 2*w.size {
		w.compact()
	}
	w.buf = append(w.buf, p...)
	return n, nil
}

// compact drops everything but the last size bytes.
func (w *Window) compact() {
	if len(w.buf) <= w.size {
		return
	}
	n := copy(w.buf, w.buf[len(w.buf)-w.size:])
	w.buf = w.buf[:n]
}

// At returns the byte distance positions back from the end of the window;
// At(1) is the most recently pushed byte.
func (w *Window) At(distance int) (byte, error) {
	if distance < 1 || distance > w.Len() {
		return 0, pack.ErrOffsetOutOfRange
	}
	return w.buf[len(w.buf)-distance], nil
}

// Len returns the number of bytes currently held.
func (w *Window) Len() int {
	if len(w.buf) > w.size {
		return w.size
	}
	return len(w.buf)
}

// Cap returns the window's capacity.
func (w *Window) Cap() int {
	return w.size
}

// Bytes returns the bytes in the window, oldest first. The slice is only
// valid until the next change to the window.
func (w *Window) Bytes() []byte {
	return w.buf[len(w.buf)-w.Len():]
}

// Reset empties the window.
func (w *Window) Reset() {
	w.buf = w.buf[:0]
}
