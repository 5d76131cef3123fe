package base

// Reserved codes of the bitstream, never assigned to dictionary entries.
const (
	CodeLiteral8    = 0 // followed by 8 literal bits
	CodeLiteral16   = 1 // followed by 16 literal bits
	CodeEndOfStream = 2

	FirstDictionaryCode = 3
)

const (
	Literal8Bits  = 8
	Literal16Bits = 16
)
