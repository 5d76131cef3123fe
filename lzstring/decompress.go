package lzstring

import (
	"fmt"
	"slices"
	"unicode/utf16"

	"github.com/cybroslabs/liblzstring-go/base"
)

type dictentry struct {
	prefix int32 // code of the sequence this one extends, -1 for single symbols
	symbol uint16
	first  uint16
	length int32
}

type decompressor struct {
	bitreader
	entries    []dictentry // indexed by code, 0..2 are placeholders for the control codes
	numbits    int
	enlargein  int
	w          int32
	output     []uint16
	maxsymbols int
}

func newdecompressor(input []byte, maxsymbols int) *decompressor {
	d := decompressor{
		bitreader:  newbitreader(input),
		entries:    make([]dictentry, base.FirstDictionaryCode, len(input)+base.FirstDictionaryCode),
		numbits:    2, // bootstrap code is always 2 bits wide
		w:          -1,
		output:     make([]uint16, 0, len(input)*2),
		maxsymbols: maxsymbols,
	}
	return &d
}

func (d *decompressor) countcode() {
	d.enlargein--
	if d.enlargein == 0 {
		d.enlargein = 1 << d.numbits
		d.numbits++
	}
}

func (d *decompressor) addliteral(s uint16) int32 {
	d.entries = append(d.entries, dictentry{prefix: -1, symbol: s, first: s, length: 1})
	return int32(len(d.entries) - 1)
}

func (d *decompressor) readliteral(ctr int) (uint16, error) {
	bits := base.Literal8Bits
	if ctr == base.CodeLiteral16 {
		bits = base.Literal16Bits
	}
	s, err := d.readbits(bits)
	return uint16(s), err
}

func (d *decompressor) emit(code int32) error {
	e := d.entries[code]
	n := len(d.output)
	if d.maxsymbols > 0 && n+int(e.length) > d.maxsymbols {
		return fmt.Errorf("%w: more than %d symbols", base.ErrOutputLimit, d.maxsymbols)
	}
	d.output = slices.Grow(d.output, int(e.length))[:n+int(e.length)]
	for ii := n + int(e.length) - 1; ; ii-- { // walk the prefix chain backwards
		d.output[ii] = e.symbol
		if e.prefix < 0 {
			break
		}
		e = d.entries[e.prefix]
	}
	return nil
}

// decodefirst handles the bootstrap code, there is no dictionary yet so only literals and end of stream are valid
func (d *decompressor) decodefirst() (done bool, err error) {
	ctr, err := d.readbits(2)
	if err != nil {
		return false, err
	}
	switch ctr {
	case base.CodeLiteral8, base.CodeLiteral16:
	case base.CodeEndOfStream:
		return true, nil
	default:
		return false, fmt.Errorf("%w: bootstrap code %d", base.ErrInvalidCode, ctr)
	}
	s, err := d.readliteral(ctr)
	if err != nil {
		return false, err
	}
	d.w = d.addliteral(s)
	if err = d.emit(d.w); err != nil {
		return false, err
	}
	d.numbits = 3
	d.enlargein = 4
	return false, nil
}

func (d *decompressor) decodenext() (done bool, err error) {
	c, err := d.readbits(d.numbits)
	if err != nil {
		return false, err
	}
	switch c {
	case base.CodeLiteral8, base.CodeLiteral16:
		s, err := d.readliteral(c)
		if err != nil {
			return false, err
		}
		c = int(d.addliteral(s))
		d.countcode()
	case base.CodeEndOfStream:
		return true, nil
	}

	dictsize := len(d.entries)
	var first uint16
	switch {
	case c < dictsize:
		first = d.entries[c].first
	case c == dictsize: // sequence being defined right now, w + w[0]
		first = d.entries[d.w].first
	default:
		return false, fmt.Errorf("%w: code %d, dictionary size %d", base.ErrInvalidCode, c, dictsize)
	}

	prev := d.entries[d.w]
	d.entries = append(d.entries, dictentry{prefix: d.w, symbol: first, first: prev.first, length: prev.length + 1})
	if err = d.emit(int32(c)); err != nil {
		return false, err
	}
	d.countcode()
	d.w = int32(c)
	return false, nil
}

func (d *decompressor) decompress() ([]uint16, error) {
	done, err := d.decodefirst()
	for !done && err == nil {
		done, err = d.decodenext()
	}
	if err != nil {
		return nil, err
	}
	return d.output, nil
}

func decompress(input []byte, maxsymbols int) ([]uint16, error) {
	if input == nil {
		return nil, nil
	}
	if len(input) == 0 {
		return []uint16{}, nil
	}
	return newdecompressor(input, maxsymbols).decompress()
}

// Decompress is the inverse of Compress. Malformed or truncated data yields empty text, never a partial result.
func Decompress(input []byte) []uint16 {
	out, err := decompress(input, 0)
	if err != nil {
		return []uint16{}
	}
	return out
}

// DecompressStrict behaves like Decompress but reports why the data could not be decoded,
// errors wrap base.ErrTruncated or base.ErrInvalidCode.
func DecompressStrict(input []byte) ([]uint16, error) {
	return decompress(input, 0)
}

func DecompressString(input []byte) string {
	return string(utf16.Decode(Decompress(input)))
}
