package lz77

// Stream format constants.
//
// A stream is the Magic byte followed by tokens. A literal token is
// tagLiteral and one payload byte; a match token is tagMatch, an offset byte
// and a length byte.
const (
	Magic = 0x4C // 'L'

	WindowSize     = 4096 // default history window capacity
	MaxOffset      = 255  // largest offset a match token can hold
	MinMatchLength = 3
	MaxMatchLength = 255

	tagLiteral = 0
	tagMatch   = 1
)
