package lzstring_test

import (
	"fmt"

	"github.com/cybroslabs/liblzstring-go/lzstring"
)

func Example() {
	data := lzstring.CompressString("AAA")
	fmt.Println(lzstring.FormatBytes(data))

	parsed, err := lzstring.ParseBytes("32, 138")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(lzstring.DecompressString(parsed))
	// Output:
	// 32,138
	// AAA
}
