package lzstring

import (
	"unicode/utf16"

	"github.com/cybroslabs/liblzstring-go/base"
)

type trienode struct {
	symbol  uint16
	pending bool // known to the dictionary, but never sent as a literal yet
}

type trieedge struct {
	parent int32 // -1 for single symbol sequences
	symbol uint16
}

type compressor struct {
	bitwriter
	nodes     []trienode // node i carries code i+3
	edges     map[trieedge]int32
	numbits   int
	enlargein int
	w         int32

	observe func(code int, numbits int) // called for every emitted code, tests only
}

func newcompressor(capacity int) *compressor {
	return &compressor{
		bitwriter: bitwriter{output: make([]byte, 0, capacity/2+1)},
		nodes:     make([]trienode, 0, capacity),
		edges:     make(map[trieedge]int32, capacity),
		numbits:   2,
		enlargein: 2, // first literal counts twice
		w:         -1,
	}
}

func (c *compressor) addnode(parent int32, symbol uint16, pending bool) int32 {
	id := int32(len(c.nodes))
	c.nodes = append(c.nodes, trienode{symbol: symbol, pending: pending})
	c.edges[trieedge{parent: parent, symbol: symbol}] = id
	return id
}

func (c *compressor) countcode() {
	c.enlargein--
	if c.enlargein == 0 {
		c.enlargein = 1 << c.numbits
		c.numbits++
	}
}

func (c *compressor) emitcode(code int) {
	if c.observe != nil {
		c.observe(code, c.numbits)
	}
	c.emitbits(code, c.numbits)
}

func (c *compressor) emitnode(id int32) {
	n := &c.nodes[id]
	if n.pending {
		if n.symbol < 256 {
			c.emitcode(base.CodeLiteral8)
			c.emitbits(int(n.symbol), base.Literal8Bits)
		} else {
			c.emitcode(base.CodeLiteral16)
			c.emitbits(int(n.symbol), base.Literal16Bits)
		}
		n.pending = false
		c.countcode()
	} else {
		c.emitcode(int(id) + base.FirstDictionaryCode)
	}
	c.countcode()
}

func (c *compressor) step(s uint16) {
	single, ok := c.edges[trieedge{parent: -1, symbol: s}]
	if !ok {
		single = c.addnode(-1, s, true)
	}
	if c.w < 0 {
		c.w = single
		return
	}
	if wc, ok := c.edges[trieedge{parent: c.w, symbol: s}]; ok { // keep extending the match
		c.w = wc
		return
	}
	c.emitnode(c.w)
	c.addnode(c.w, s, false)
	c.w = single
}

func (c *compressor) finish() []byte {
	if c.w >= 0 {
		c.emitnode(c.w)
		c.w = -1
	}
	c.emitcode(base.CodeEndOfStream)
	c.flush()
	return c.output
}

// Compress encodes utf-16 code units, nil stays nil and empty input gives empty output.
func Compress(input []uint16) []byte {
	if input == nil {
		return nil
	}
	if len(input) == 0 {
		return []byte{}
	}
	ctx := newcompressor(len(input))
	for _, s := range input {
		ctx.step(s)
	}
	return ctx.finish()
}

func CompressString(s string) []byte {
	return Compress(utf16.Encode([]rune(s)))
}
