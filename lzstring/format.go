package lzstring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cybroslabs/liblzstring-go/base"
)

// FormatBytes renders compressed data as comma separated decimal values, "1,2,3".
func FormatBytes(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data) * 4)
	for ii, b := range data {
		if ii > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(b)))
	}
	return sb.String()
}

// ParseBytes is the inverse of FormatBytes, blanks around values are ignored.
func ParseBytes(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []byte{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]byte, len(parts))
	for ii, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", base.ErrInvalidFormat, ii, err)
		}
		out[ii] = byte(v)
	}
	return out, nil
}
