package rpc

import (
	"context"
	"testing"

	"github.com/cybroslabs/liblzstring-go/internal/testing/require"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewServer(&ServerSettings{Registerer: reg, Strict: true})
	ctx := context.Background()

	payload := EncodeUnits([]uint16{'a', 'b', 'a', 'b', 'a', 'b'})
	out, err := s.Compress(ctx, payload)
	require.Nil(t, err)

	_, err = s.Decompress(ctx, out)
	require.Nil(t, err)

	_, err = s.Compress(ctx, []byte{1, 2, 3})
	require.NotNil(t, err)

	require.Equal(t, testutil.ToFloat64(s.metrics.requests.WithLabelValues("compress", "ok")), 1.0)
	require.Equal(t, testutil.ToFloat64(s.metrics.requests.WithLabelValues("compress", "error")), 1.0)
	require.Equal(t, testutil.ToFloat64(s.metrics.requests.WithLabelValues("decompress", "ok")), 1.0)
	require.Equal(t, testutil.ToFloat64(s.metrics.bytesOut.WithLabelValues("decompress")), float64(len(payload)))

	n, err := testutil.GatherAndCount(reg, "lzstring_rpc_requests_total")
	require.Nil(t, err)
	require.Equal(t, n, 3)
}

func TestCanceled(t *testing.T) {
	s := NewServer(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Compress(ctx, nil)
	require.NotNil(t, err)
}
