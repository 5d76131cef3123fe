package lzstring

import (
	"fmt"

	"github.com/cybroslabs/liblzstring-go/base"
)

// bitwriter packs fields msb first into bytes, every field itself goes out lsb first
type bitwriter struct {
	output    []byte
	tmp       byte
	bitoffset byte
}

func (w *bitwriter) emitbit(b byte) {
	w.tmp = w.tmp<<1 | b&1
	w.bitoffset++
	if w.bitoffset == 8 {
		w.output = append(w.output, w.tmp)
		w.bitoffset = 0
		w.tmp = 0
	}
}

func (w *bitwriter) emitbits(value int, n int) {
	for range n {
		w.emitbit(byte(value & 1))
		value >>= 1
	}
}

// flush zero pads the last partial byte, aligned output gets nothing extra
func (w *bitwriter) flush() {
	if w.bitoffset == 0 {
		return
	}
	w.output = append(w.output, w.tmp<<(8-w.bitoffset))
	w.bitoffset = 0
	w.tmp = 0
}

type bitreader struct {
	input     []byte
	pos       int
	bitoffset byte
	inputbits int
}

func newbitreader(input []byte) bitreader {
	return bitreader{
		input:     input,
		inputbits: len(input) * 8,
	}
}

func (r *bitreader) readbit() (b byte) {
	b = (r.input[r.pos] >> (7 - r.bitoffset)) & 1
	r.bitoffset++
	r.inputbits--
	if r.bitoffset == 8 {
		r.pos++
		r.bitoffset = 0
	}
	return
}

func (r *bitreader) readbits(n int) (int, error) {
	if r.inputbits < n {
		return 0, fmt.Errorf("%w: %d bits wanted at byte %d, %d left", base.ErrTruncated, n, r.pos, r.inputbits)
	}
	v := 0
	for ii := range n {
		v |= int(r.readbit()) << ii
	}
	return v, nil
}
