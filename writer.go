package pack

import (
	"errors"
	"io"
)

// DefaultBlockSize is the block size a Writer uses when BlockSize is 0.
const DefaultBlockSize = 1 << 16

var errWriterClosed = errors.New("pack: write to closed Writer")

// A Writer uses MatchFinder and Encoder to write compressed data to Dest.
//
// Input is cut into blocks of BlockSize bytes (the last one may be shorter),
// so the output does not depend on how the data is split between calls to
// Write. If MatchFinder is a LookaheadMatchFinder, the Writer also holds
// back its Lookahead bytes, and a block ends at the first match boundary at
// or after BlockSize, so matches are never cut at a block edge.
type Writer struct {
	Dest        io.Writer
	MatchFinder MatchFinder
	Encoder     Encoder
	BlockSize   int

	inBuf   []byte
	outBuf  []byte
	matches []Match
	err     error
	closed  bool
}

// Write buffers p, compressing and writing out each block as it fills up.
func (w *Writer) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.closed {
		return 0, errWriterClosed
	}
	if w.BlockSize == 0 {
		w.BlockSize = DefaultBlockSize
	}

	full := w.BlockSize
	if lf, ok := w.MatchFinder.(LookaheadMatchFinder); ok {
		full += lf.Lookahead()
	}

	for len(p) > 0 {
		room := full - len(w.inBuf)
		if room > len(p) {
			room = len(p)
		}
		w.inBuf = append(w.inBuf, p[:room]...)
		p = p[room:]
		n += room

		if len(w.inBuf) == full {
			if err := w.encodeBlock(false); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

func (w *Writer) encodeBlock(lastBlock bool) error {
	n := len(w.inBuf)
	if lf, ok := w.MatchFinder.(LookaheadMatchFinder); ok && !lastBlock {
		w.matches, n = lf.FindMatchesUntil(w.matches[:0], w.inBuf, w.BlockSize)
	} else {
		w.matches = w.MatchFinder.FindMatches(w.matches[:0], w.inBuf)
	}
	w.outBuf = w.Encoder.Encode(w.outBuf[:0], w.inBuf[:n], w.matches, lastBlock)
	rest := copy(w.inBuf, w.inBuf[n:])
	w.inBuf = w.inBuf[:rest]

	if len(w.outBuf) > 0 {
		if _, err := w.Dest.Write(w.outBuf); err != nil {
			w.err = err
			return err
		}
	}
	return nil
}

// Close compresses the remaining buffered data, marks the end of the stream,
// and flushes Dest if it has a Flush method. It does not close Dest.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.encodeBlock(true); err != nil {
		return err
	}
	if f, ok := w.Dest.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			w.err = err
			return err
		}
	}
	return nil
}

// Reset discards the Writer's state and prepares it to write a new stream
// to newDest, reusing its buffers.
func (w *Writer) Reset(newDest io.Writer) {
	w.Dest = newDest
	w.inBuf = w.inBuf[:0]
	w.outBuf = w.outBuf[:0]
	w.matches = w.matches[:0]
	w.err = nil
	w.closed = false
	w.MatchFinder.Reset()
	w.Encoder.Reset()
}
