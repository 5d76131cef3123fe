package lzstring

import (
	"encoding/hex"
	"strings"

	"github.com/cybroslabs/liblzstring-go/base"
	"go.uber.org/zap"
)

type CodecSettings struct {
	Logger     *zap.SugaredLogger
	Strict     bool // report malformed data instead of returning empty text
	MaxSymbols int  // 0 means no limit on decoded length
}

type codec struct {
	logger     *zap.SugaredLogger
	strict     bool
	maxsymbols int
}

func NewCodec(settings *CodecSettings) base.TextCodec {
	c := &codec{}
	if settings != nil {
		c.logger = settings.Logger
		c.strict = settings.Strict
		c.maxsymbols = settings.MaxSymbols
	}
	return c
}

func (c *codec) SetLogger(logger *zap.SugaredLogger) {
	c.logger = logger
}

func (c *codec) Encode(text []uint16) []byte {
	out := Compress(text)
	if c.logger != nil {
		c.logger.Debugf("TX: %6d symbols -> %6d bytes %s", len(text), len(out), encodeHexString(out))
	}
	return out
}

func (c *codec) Decode(data []byte) ([]uint16, error) {
	out, err := decompress(data, c.maxsymbols)
	if err != nil {
		if c.logger != nil {
			c.logger.Debugf("RX: %6d bytes rejected: %v %s", len(data), err, encodeHexString(data))
		}
		if c.strict {
			return nil, err
		}
		return []uint16{}, nil
	}
	if c.logger != nil {
		c.logger.Debugf("RX: %6d bytes -> %6d symbols", len(data), len(out))
	}
	return out, nil
}

func encodeHexString(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}
