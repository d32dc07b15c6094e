// The pack package is a modular system for byte-stream compression.
//
// A compressor has two parts:
//  - Something that looks for repeated sequences of bytes (a MatchFinder)
//  - An encoder for the compressed data format (an Encoder)
//
// The two parts talk through an intermediate representation, a slice of
// Match values, so that any MatchFinder can drive any Encoder. A Writer
// glues one of each to an io.Writer.
//
// The lz77 and rle sub-packages provide the two formats of this module,
// each with an Encoder, a streaming Reader and a NewWriter constructor.
package pack

// A Match is the basic unit of LZ77 compression.
type Match struct {
	Unmatched int // the number of unmatched bytes since the previous match
	Length    int // the number of bytes in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from
}

// A MatchFinder performs the LZ77 stage of compression, looking for matches.
type MatchFinder interface {
	// FindMatches looks for matches in src, appends them to dst, and returns dst.
	// The matches (including the Unmatched runs) must cover all of src.
	FindMatches(dst []Match, src []byte) []Match

	// Reset clears any internal state, preparing the MatchFinder to be used with
	// a new stream.
	Reset()
}

// A LookaheadMatchFinder is a MatchFinder whose choice at a position depends
// on the bytes that follow it. A Writer keeps Lookahead bytes past the end of
// each block, and only the final block is parsed with FindMatches.
type LookaheadMatchFinder interface {
	MatchFinder

	// Lookahead returns how many bytes past a position the finder may read.
	Lookahead() int

	// FindMatchesUntil is like FindMatches, but it stops at the first match
	// boundary at or after limit. It returns the number of bytes of src the
	// matches cover; the rest must be passed again at the start of the next
	// call.
	FindMatchesUntil(dst []Match, src []byte, limit int) ([]Match, int)
}

// An Encoder encodes the data in its final format.
type Encoder interface {
	// Encode appends the encoded format of src to dst, using the match
	// information from matches. The first call after Reset must also write
	// the stream header, even when src is empty.
	Encode(dst []byte, src []byte, matches []Match, lastBlock bool) []byte

	// Reset clears any internal state, preparing the Encoder to be used with
	// a new stream.
	Reset()
}

// NoMatch is a MatchFinder that never finds anything. It is used with
// encoders that do their own modelling, such as run-length encoding.
type NoMatch struct{}

func (NoMatch) Reset() {}

func (NoMatch) FindMatches(dst []Match, src []byte) []Match {
	if len(src) == 0 {
		return dst
	}
	return append(dst, Match{Unmatched: len(src)})
}
