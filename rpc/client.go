package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) invoke(ctx context.Context, method string, payload []byte) ([]byte, error) {
	out := new(frame)
	err := c.conn.Invoke(ctx, method, &frame{data: payload}, out, grpc.ForceCodec(rawcodec{}))
	if err != nil {
		return nil, err
	}
	return out.data, nil
}

func (c *Client) Compress(ctx context.Context, text []uint16) ([]byte, error) {
	return c.invoke(ctx, compressMethod, EncodeUnits(text))
}

func (c *Client) Decompress(ctx context.Context, data []byte) ([]uint16, error) {
	out, err := c.invoke(ctx, decompressMethod, data)
	if err != nil {
		return nil, err
	}
	text, err := DecodeUnits(out)
	if err != nil {
		return nil, fmt.Errorf("decompress response: %w", err)
	}
	return text, nil
}
