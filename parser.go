package pack

// An AbsoluteMatch is like a Match, but it stores indexes into the byte
// stream instead of lengths.
type AbsoluteMatch struct {
	// Start is the index of the first byte.
	Start int

	// End is the index of the byte after the last byte
	// (so that End - Start = Length).
	End int

	// Match is the index of the previous data that matches
	// (Start - Match = Distance).
	Match int
}

// A Searcher is the source of matches for a Parser. It is a lower-level
// interface than MatchFinder, only looking for matches at one position at a
// time. A type that uses a Parser to implement MatchFinder can implement
// Searcher as well, and pass itself to the Parser.
type Searcher interface {
	// Search looks for matches at pos and appends them to dst.
	// In each match, Start and End must fall within the interval [min,max),
	// and Match < Start < End.
	Search(dst []AbsoluteMatch, pos, min, max int) []AbsoluteMatch
}

// A Parser chooses which matches to use to compress the data.
type Parser interface {
	// Parse gets matches from src, chooses which ones to use, and appends
	// them to dst. The matches cover the range of bytes from start to end.
	Parse(dst []Match, src Searcher, start, end int) []Match
}

// A GreedyParser implements the greedy matching strategy: It goes from start
// to end, choosing the longest match at each position.
type GreedyParser struct {
	// MinLength is the length of the shortest match that will be used.
	// The default is 4.
	MinLength int

	matchCache []AbsoluteMatch
}

func (p *GreedyParser) Parse(dst []Match, src Searcher, start, end int) []Match {
	dst, _ = p.ParseUntil(dst, src, start, end, end)
	return dst
}

// ParseUntil is like Parse, but it stops at the first match boundary at or
// after limit, and returns that position. Matches may extend up to end.
func (p *GreedyParser) ParseUntil(dst []Match, src Searcher, start, limit, end int) ([]Match, int) {
	if p.MinLength == 0 {
		p.MinLength = 4
	}
	matches := p.matchCache[:0]
	nextEmit := start

	s := start
	for s < limit && s+p.MinLength <= end {
		matches = src.Search(matches[:0], s, nextEmit, end)
		m := longestMatch(matches)
		if m.End-m.Start < p.MinLength {
			s++
			continue
		}

		dst = append(dst, Match{
			Unmatched: m.Start - nextEmit,
			Length:    m.End - m.Start,
			Distance:  m.Start - m.Match,
		})
		s = m.End
		nextEmit = s
	}
	if s < limit {
		// Too close to end for a match.
		s = limit
	}

	if nextEmit < s {
		dst = append(dst, Match{
			Unmatched: s - nextEmit,
		})
	}
	p.matchCache = matches[:0]
	return dst, s
}

// longestMatch returns the longest of matches. When several have the same
// length, the first one wins.
func longestMatch(matches []AbsoluteMatch) AbsoluteMatch {
	var longest AbsoluteMatch

	for _, m := range matches {
		if m.End-m.Start > longest.End-longest.Start {
			longest = m
		}
	}

	return longest
}
