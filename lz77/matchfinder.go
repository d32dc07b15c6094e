package lz77

import (
	"encoding/binary"
	"math/bits"

	"github.com/bytepress/pack"
)

// MatchFinder is an implementation of the pack.MatchFinder interface that
// does an exhaustive greedy search over a bounded history window.
//
// At each position it tries every distance from 1 to MaxOffset and keeps the
// longest match. When two distances give the same length, the smaller
// distance wins, so the output is fully determined by the input.
type MatchFinder struct {
	// MaxOffset is the maximum distance (in bytes) to look back for
	// a match. The default is 255.
	MaxOffset int

	// MinLength is the length of the shortest match that will be used.
	// The default is 3.
	MinLength int

	// MaxLength is the longest match that will be returned.
	// The default is 255.
	MaxLength int

	// WindowSize is the capacity of the history window.
	// The default is 4096.
	WindowSize int

	window *Window
	parser pack.GreedyParser

	// buf holds the tail of the window followed by the block being parsed.
	buf []byte
}

func (q *MatchFinder) init() {
	if q.MaxOffset == 0 {
		q.MaxOffset = MaxOffset
	}
	if q.MinLength == 0 {
		q.MinLength = MinMatchLength
	}
	if q.MaxLength == 0 {
		q.MaxLength = MaxMatchLength
	}
	if q.WindowSize == 0 {
		q.WindowSize = WindowSize
	}
	if q.MaxOffset > q.WindowSize {
		q.MaxOffset = q.WindowSize
	}
	if q.window == nil {
		q.window = NewWindow(q.WindowSize)
	}
	q.parser.MinLength = q.MinLength
}

func (q *MatchFinder) Reset() {
	if q.window != nil {
		q.window.Reset()
	}
	q.buf = q.buf[:0]
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
// Matches may refer back into the previous blocks of the stream, as far as
// the history window reaches.
func (q *MatchFinder) FindMatches(dst []pack.Match, src []byte) []pack.Match {
	dst, _ = q.FindMatchesUntil(dst, src, len(src))
	return dst
}

// Lookahead returns how far past a position a match can reach.
func (q *MatchFinder) Lookahead() int {
	q.init()
	return q.MaxLength - 1
}

// FindMatchesUntil parses src up to the first match boundary at or after
// limit, using the bytes after it only to extend matches. It returns the
// number of bytes covered, which are the only ones added to the window.
func (q *MatchFinder) FindMatchesUntil(dst []pack.Match, src []byte, limit int) ([]pack.Match, int) {
	q.init()

	history := q.window.Bytes()
	if len(history) > q.MaxOffset {
		history = history[len(history)-q.MaxOffset:]
	}
	q.buf = append(q.buf[:0], history...)
	start := len(q.buf)
	q.buf = append(q.buf, src...)

	dst, end := q.parser.ParseUntil(dst, q, start, start+limit, len(q.buf))
	n := end - start
	q.window.Write(src[:n])
	return dst, n
}

// Search finds the longest match starting at pos, and appends it to dst.
// The match may overlap pos (distance < length); it never extends past max.
func (q *MatchFinder) Search(dst []pack.AbsoluteMatch, pos, min, max int) []pack.AbsoluteMatch {
	limit := pos + q.MaxLength
	if limit > max {
		limit = max
	}
	src := q.buf[:limit]

	maxDistance := q.MaxOffset
	if maxDistance > pos {
		maxDistance = pos
	}

	bestEnd, bestDistance := pos, 0
	for d := 1; d <= maxDistance; d++ {
		end := extendMatch(src, pos-d, pos)
		if end > bestEnd {
			bestEnd, bestDistance = end, d
			if end == limit {
				break
			}
		}
	}

	if bestDistance == 0 {
		return dst
	}
	return append(dst, pack.AbsoluteMatch{
		Start: pos,
		End:   bestEnd,
		Match: pos - bestDistance,
	})
}

// extendMatch returns the largest k such that k <= len(src) and that
// src[i:i+k-j] and src[j:k] have the same contents.
//
// It assumes that:
//	0 <= i && i < j && j <= len(src)
func extendMatch(src []byte, i, j int) int {
	// As long as we are 8 or more bytes before the end of src, we can load and
	// compare 8 bytes at a time. If those 8 bytes are equal, repeat.
	for j+8 <= len(src) {
		iBytes := binary.LittleEndian.Uint64(src[i:])
		jBytes := binary.LittleEndian.Uint64(src[j:])
		if iBytes != jBytes {
			// The lowest set bit of the XOR is in the first byte that differs.
			return j + bits.TrailingZeros64(iBytes^jBytes)>>3
		}
		i, j = i+8, j+8
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}
