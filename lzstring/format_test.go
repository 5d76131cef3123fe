package lzstring_test

import (
	"testing"

	"github.com/cybroslabs/liblzstring-go/base"
	"github.com/cybroslabs/liblzstring-go/internal/testing/require"
	"github.com/cybroslabs/liblzstring-go/lzstring"
)

func TestFormatBytes(t *testing.T) {
	require.Equal(t, lzstring.FormatBytes(nil), "")
	require.Equal(t, lzstring.FormatBytes([]byte{0}), "0")
	require.Equal(t, lzstring.FormatBytes([]byte{32, 144, 255}), "32,144,255")
}

func TestParseBytes(t *testing.T) {
	b, err := lzstring.ParseBytes("")
	require.Nil(t, err)
	require.Equal(t, b, []byte{})

	b, err = lzstring.ParseBytes(" 1, 2 ,3 ")
	require.Nil(t, err)
	require.Equal(t, b, []byte{1, 2, 3})

	for _, bad := range []string{"256", "1,,2", "-1", "a,b", "1;2"} {
		_, err = lzstring.ParseBytes(bad)
		require.ErrorIs(t, err, base.ErrInvalidFormat)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	data := lzstring.CompressString("the goblin drops 12 gold coins, the goblin drops a dagger")
	parsed, err := lzstring.ParseBytes(lzstring.FormatBytes(data))
	require.Nil(t, err)
	require.Equal(t, parsed, data)
}
