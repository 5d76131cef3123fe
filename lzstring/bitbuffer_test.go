package lzstring

import (
	"testing"

	"github.com/cybroslabs/liblzstring-go/base"
	"github.com/cybroslabs/liblzstring-go/internal/testing/require"
)

func TestBitWriterOrder(t *testing.T) {
	var w bitwriter
	w.emitbits(0b01, 2) // goes out as 1 then 0
	w.emitbits(0b101, 3)
	w.flush()
	require.Equal(t, w.output, []byte{0b10101000})

	w = bitwriter{}
	w.emitbits(0xff, 8)
	w.flush()
	require.Equal(t, w.output, []byte{0xff})
}

func TestBitReaderRoundTrip(t *testing.T) {
	var w bitwriter
	values := []struct {
		v int
		n int
	}{
		{2, 2}, {65, 8}, {0xabcd, 16}, {5, 3}, {1, 1}, {300, 9},
	}
	for _, v := range values {
		w.emitbits(v.v, v.n)
	}
	w.flush()

	r := newbitreader(w.output)
	for _, v := range values {
		got, err := r.readbits(v.n)
		require.Nil(t, err)
		require.Equal(t, got, v.v)
	}
	_, err := r.readbits(8)
	require.ErrorIs(t, err, base.ErrTruncated)
}

func TestCodeWidthNeverOverflows(t *testing.T) {
	inputs := [][]uint16{
		toUnits("abababababababababababababababababab"),
		toUnits("the quick brown fox jumps over the lazy dog, the quick brown fox"),
		toUnits("Ātomic ĀĀĀ ħ ħ ħ 日本語日本語日本語"),
		pseudoRandom(5000, 7),
	}
	for _, input := range inputs {
		ctx := newcompressor(len(input))
		last := 0
		emitted := 0
		ctx.observe = func(code int, numbits int) {
			if numbits < last {
				t.Fatalf("code width decreased from %d to %d", last, numbits)
			}
			if code >= 1<<numbits {
				t.Fatalf("code %d does not fit %d bits", code, numbits)
			}
			last = numbits
			emitted++
		}
		for _, s := range input {
			ctx.step(s)
		}
		out := ctx.finish()
		require.True(t, emitted > 1, "nothing emitted")
		require.Equal(t, Decompress(out), input)
	}
}

func TestDictionaryIsTrie(t *testing.T) {
	ctx := newcompressor(0)
	for _, s := range toUnits("abcabcabcabcabcabc") {
		ctx.step(s)
	}
	for id := range ctx.nodes {
		found := false
		for _, v := range ctx.edges {
			if int(v) == id {
				found = true
				break
			}
		}
		require.True(t, found, "node without edge")
	}
	require.Equal(t, len(ctx.edges), len(ctx.nodes))
	// every multi symbol entry extends an existing one
	for e := range ctx.edges {
		require.True(t, e.parent < int32(len(ctx.nodes)), "dangling parent")
	}
}
