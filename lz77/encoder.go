package lz77

import "github.com/bytepress/pack"

// An Encoder implements the pack.Encoder interface, writing the LZ77 token
// format.
//
// It accepts matches from any pack.MatchFinder: matches longer than
// MaxMatchLength are split into several tokens with the same offset, and
// matches it cannot represent are written as literals.
type Encoder struct {
	wroteHeader bool
}

func (e *Encoder) Reset() {
	e.wroteHeader = false
}

func (e *Encoder) Encode(dst []byte, src []byte, matches []pack.Match, lastBlock bool) []byte {
	if !e.wroteHeader {
		dst = append(dst, Magic)
		e.wroteHeader = true
	}

	pos := 0
	for _, m := range matches {
		if m.Unmatched > 0 {
			dst = appendLiterals(dst, src[pos:pos+m.Unmatched])
			pos += m.Unmatched
		}
		if m.Length > 0 {
			dst = appendMatch(dst, src[pos:pos+m.Length], m.Distance)
			pos += m.Length
		}
	}
	if pos < len(src) {
		dst = appendLiterals(dst, src[pos:])
	}
	return dst
}

func appendLiterals(dst, lit []byte) []byte {
	for _, b := range lit {
		dst = append(dst, tagLiteral, b)
	}
	return dst
}

// appendMatch appends tokens for a copy of len(match) bytes from distance
// bytes back. match holds the bytes being copied, for the literal fallback.
func appendMatch(dst, match []byte, distance int) []byte {
	if distance < 1 || distance > MaxOffset {
		return appendLiterals(dst, match)
	}

	length := len(match)
	for length >= MinMatchLength {
		n := length
		if n > MaxMatchLength {
			n = MaxMatchLength
			// Don't leave a tail too short to be a match.
			if rest := length - n; rest < MinMatchLength {
				n = length - MinMatchLength
			}
		}
		dst = append(dst, tagMatch, byte(distance), byte(n))
		length -= n
	}
	return appendLiterals(dst, match[len(match)-length:])
}
