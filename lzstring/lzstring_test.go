package lzstring

import (
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/cybroslabs/liblzstring-go/base"
	"github.com/cybroslabs/liblzstring-go/internal/testing/require"
)

func toUnits(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

func pseudoRandom(n int, seed uint64) []uint16 {
	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]uint16, n)
	for ii := range out {
		out[ii] = uint16(rnd.UintN(65536))
	}
	return out
}

func TestNilAndEmpty(t *testing.T) {
	require.Nil(t, Compress(nil))
	require.Nil(t, Decompress(nil))
	require.Equal(t, Compress([]uint16{}), []byte{})
	require.Equal(t, Decompress([]byte{}), []uint16{})
	require.Equal(t, CompressString(""), []byte{})
	require.Equal(t, DecompressString([]byte{}), "")

	out, err := DecompressStrict(nil)
	require.Nil(t, err)
	require.Nil(t, out)
}

func TestKnownOutput(t *testing.T) {
	require.Equal(t, CompressString("A"), []byte{32, 144})
	require.Equal(t, CompressString("aa"), []byte{33, 178})
	require.Equal(t, CompressString("AAA"), []byte{32, 138}) // last code references itself

	require.Equal(t, DecompressString([]byte{32, 144}), "A")
	require.Equal(t, DecompressString([]byte{33, 178}), "aa")
	require.Equal(t, DecompressString([]byte{32, 138}), "AAA")
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"A",
		"aaaaaaaaaa",
		"abcabcabcabc",
		"TOBEORNOTTOBEORTOBEORNOT",
		"Příliš žluťoučký kůň úpěl ďábelské ódy",
		"日本語のテキストも圧縮できる",
		"emoji 🎲🎲🎲 dice",
		strings.Repeat("the dungeon is dark; ", 200),
	}
	for _, s := range inputs {
		data := CompressString(s)
		require.NotEqual(t, len(data), 0)
		require.Equal(t, DecompressString(data), s)
	}
}

func TestRoundTripUnits(t *testing.T) {
	inputs := [][]uint16{
		{0},
		{255, 256},
		{65535, 0, 65535, 0},
		{0xd800, 0xd800, 0xdfff}, // unpaired surrogates are plain symbols
		pseudoRandom(1, 1),
		pseudoRandom(100, 2),
		pseudoRandom(10000, 3),
	}
	// low entropy over the full range
	rnd := rand.New(rand.NewPCG(4, 5))
	alphabet := pseudoRandom(12, 6)
	mixed := make([]uint16, 20000)
	for ii := range mixed {
		mixed[ii] = alphabet[rnd.IntN(len(alphabet))]
	}
	inputs = append(inputs, mixed)

	for _, input := range inputs {
		require.Equal(t, Decompress(Compress(input)), input)
	}
}

func TestCompressionBenefit(t *testing.T) {
	s := strings.Repeat("ab", 1000)
	data := CompressString(s)
	require.True(t, len(data) < 200, "repetitive input did not shrink")
	require.Equal(t, DecompressString(data), s)
}

func TestTruncated(t *testing.T) {
	inputs := []string{
		"A",
		"aa",
		"abcabcabcabc",
		"Ā long string with a literal-16 symbol Ā",
		strings.Repeat("xyz", 300),
	}
	for _, s := range inputs {
		data := CompressString(s)
		for cut := 1; cut <= len(data); cut++ {
			short := data[:len(data)-cut]
			require.Equal(t, Decompress(short), []uint16{})

			_, err := DecompressStrict(short)
			if len(short) > 0 {
				require.ErrorIs(t, err, base.ErrTruncated)
			}
		}
	}
}

func TestInvalidCode(t *testing.T) {
	// bootstrap code 3 does not exist
	_, err := DecompressStrict([]byte{0xc0})
	require.ErrorIs(t, err, base.ErrInvalidCode)
	require.Equal(t, Decompress([]byte{0xc0}), []uint16{})

	// literal 'A' followed by code 7 while the dictionary ends at 4
	_, err = DecompressStrict([]byte{32, 184})
	require.ErrorIs(t, err, base.ErrInvalidCode)
	require.Equal(t, Decompress([]byte{32, 184}), []uint16{})
}

func TestEndOfStreamFirst(t *testing.T) {
	// code 2 right away is a valid empty stream
	out, err := DecompressStrict([]byte{0x40})
	require.Nil(t, err)
	require.Equal(t, out, []uint16{})
}

func TestGarbageNeverPanics(t *testing.T) {
	rnd := rand.New(rand.NewPCG(11, 12))
	for range 2000 {
		data := make([]byte, rnd.IntN(64))
		for ii := range data {
			data[ii] = byte(rnd.UintN(256))
		}
		_ = Decompress(data)
	}
}
