package lz77

import "github.com/bytepress/pack"

const (
	fastTableBits = 12
	fastTableSize = 1 << fastTableBits
	hashMul32     = 0x1e35a7bd

	// The history buffer is trimmed back to MaxOffset bytes once it grows
	// past maxFastHistory.
	maxFastHistory = 1 << 16
)

// FastMatchFinder is an implementation of the pack.MatchFinder interface
// that checks a single candidate at each position: the last place the same
// three bytes were seen. It is much faster than MatchFinder, but finds
// shorter matches, and not always the nearest one. The stream it produces
// is decoded by the same Reader.
type FastMatchFinder struct {
	// table holds 1 + the position in history of the last occurrence of
	// each hash, or 0 for none.
	table [fastTableSize]int32

	history []byte
}

func (q *FastMatchFinder) Reset() {
	q.table = [fastTableSize]int32{}
	q.history = q.history[:0]
}

func hash3(b []byte) uint32 {
	u := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	return (u * hashMul32) >> (32 - fastTableBits)
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (q *FastMatchFinder) FindMatches(dst []pack.Match, src []byte) []pack.Match {
	if len(q.history) > maxFastHistory {
		// Trim down the history buffer.
		delta := len(q.history) - MaxOffset
		copy(q.history, q.history[delta:])
		q.history = q.history[:MaxOffset]

		for i, v := range q.table {
			newV := int(v) - delta
			if newV < 0 {
				newV = 0
			}
			q.table[i] = int32(newV)
		}
	}

	// Append src to the history buffer.
	nextEmit := len(q.history)
	q.history = append(q.history, src...)
	return q.parse(dst, nextEmit, len(q.history))
}

func (q *FastMatchFinder) parse(dst []pack.Match, start, end int) []pack.Match {
	src := q.history[:end]
	s := start
	nextEmit := start

	for s+MinMatchLength <= end {
		h := hash3(src[s:])
		candidate := int(q.table[h]) - 1
		q.table[h] = int32(s + 1)

		if candidate < 0 || s-candidate > MaxOffset ||
			src[candidate] != src[s] || src[candidate+1] != src[s+1] || src[candidate+2] != src[s+2] {
			s++
			continue
		}

		// We have a 3-byte match now.
		limit := s + MaxMatchLength
		if limit > end {
			limit = end
		}
		e := extendMatch(src[:limit], candidate+MinMatchLength, s+MinMatchLength)

		dst = append(dst, pack.Match{
			Unmatched: s - nextEmit,
			Length:    e - s,
			Distance:  s - candidate,
		})

		// Index the positions inside the match too.
		for i := s + 1; i < e && i+MinMatchLength <= end; i++ {
			q.table[hash3(src[i:])] = int32(i + 1)
		}
		s = e
		nextEmit = s
	}

	if nextEmit < end {
		dst = append(dst, pack.Match{
			Unmatched: end - nextEmit,
		})
	}
	return dst
}
