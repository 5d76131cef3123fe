package base

import (
	"go.uber.org/zap"
)

type TextCodec interface { // text is a sequence of utf-16 code units, nil in means nil out
	Encode(text []uint16) []byte
	Decode(data []byte) ([]uint16, error) // strict implementations report malformed data, lenient ones return empty text
	SetLogger(logger *zap.SugaredLogger)
}
