package rpc

import (
	"encoding/binary"
	"fmt"
)

// frame is an opaque payload, the service has no schema beyond raw bytes
type frame struct {
	data []byte
}

type rawcodec struct{}

func (rawcodec) Marshal(v any) ([]byte, error) {
	f, ok := v.(*frame)
	if !ok {
		return nil, fmt.Errorf("unexpected message type %T", v)
	}
	return f.data, nil
}

func (rawcodec) Unmarshal(data []byte, v any) error {
	f, ok := v.(*frame)
	if !ok {
		return fmt.Errorf("unexpected message type %T", v)
	}
	f.data = make([]byte, len(data))
	copy(f.data, data)
	return nil
}

func (rawcodec) Name() string {
	return "lzstring-raw"
}

// EncodeUnits lays out utf-16 code units big endian, the form text travels in over the service.
func EncodeUnits(text []uint16) []byte {
	out := make([]byte, 0, len(text)*2)
	for _, u := range text {
		out = binary.BigEndian.AppendUint16(out, u)
	}
	return out
}

func DecodeUnits(data []byte) ([]uint16, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("odd payload length %d", len(data))
	}
	out := make([]uint16, len(data)/2)
	for ii := range out {
		out[ii] = binary.BigEndian.Uint16(data[ii*2:])
	}
	return out, nil
}
