package rpc

import (
	"context"
	"time"

	"github.com/cybroslabs/liblzstring-go/base"
	"github.com/cybroslabs/liblzstring-go/lzstring"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"k8s.io/utils/ptr"
)

const (
	serviceName      = "lzstring.Codec"
	compressMethod   = "/" + serviceName + "/Compress"
	decompressMethod = "/" + serviceName + "/Decompress"

	defaultMaxPayloadBytes = 4 << 20
	defaultMaxSymbols      = 16 << 20
	defaultNamespace       = "lzstring"
)

// CodecServer is the handler side of the lzstring.Codec service, payloads are raw bytes.
type CodecServer interface {
	Compress(ctx context.Context, payload []byte) ([]byte, error)
	Decompress(ctx context.Context, payload []byte) ([]byte, error)
}

type ServerSettings struct {
	Logger          *zap.SugaredLogger
	Strict          bool // malformed data is rejected with InvalidArgument instead of decoding to empty text
	MaxPayloadBytes *int
	MaxSymbols      *int // decoded text limit, 0 disables it
	Registerer      prometheus.Registerer
	Namespace       *string
}

type Server struct {
	logger     *zap.SugaredLogger
	codec      base.TextCodec
	maxpayload int
	metrics    *metrics
}

var _ CodecServer = (*Server)(nil)

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*CodecServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Compress", Handler: compressHandler},
		{MethodName: "Decompress", Handler: decompressHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lzstring",
}

func NewServer(settings *ServerSettings) *Server {
	if settings == nil {
		settings = &ServerSettings{}
	}
	return &Server{
		logger: settings.Logger,
		codec: lzstring.NewCodec(&lzstring.CodecSettings{
			Logger:     settings.Logger,
			Strict:     settings.Strict,
			MaxSymbols: ptr.Deref(settings.MaxSymbols, defaultMaxSymbols),
		}),
		maxpayload: ptr.Deref(settings.MaxPayloadBytes, defaultMaxPayloadBytes),
		metrics:    newMetrics(settings.Registerer, ptr.Deref(settings.Namespace, defaultNamespace)),
	}
}

// ServerOptions returns the options a grpc.Server needs to carry the raw payloads of this service.
func ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{grpc.ForceServerCodec(rawcodec{})}
}

func (s *Server) Register(g *grpc.Server) {
	g.RegisterService(&serviceDesc, s)
}

func (s *Server) logf(format string, v ...any) {
	if s.logger != nil {
		s.logger.Infof(format, v...)
	}
}

func (s *Server) check(ctx context.Context, method string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		s.metrics.failed(method, len(payload))
		return status.FromContextError(err).Err()
	}
	if len(payload) > s.maxpayload {
		s.metrics.failed(method, len(payload))
		s.logf("%s: payload of %d bytes refused", method, len(payload))
		return status.Errorf(codes.ResourceExhausted, "payload of %d bytes exceeds %d", len(payload), s.maxpayload)
	}
	return nil
}

func (s *Server) Compress(ctx context.Context, payload []byte) ([]byte, error) {
	start := time.Now()
	if err := s.check(ctx, "compress", payload); err != nil {
		return nil, err
	}
	text, err := DecodeUnits(payload)
	if err != nil {
		s.metrics.failed("compress", len(payload))
		return nil, status.Errorf(codes.InvalidArgument, "text: %v", err)
	}
	out := s.codec.Encode(text)
	s.metrics.done("compress", len(payload), len(out), start)
	if len(payload) > 0 {
		s.metrics.ratio.Observe(float64(len(out)) / float64(len(payload)))
	}
	return out, nil
}

func (s *Server) Decompress(ctx context.Context, payload []byte) ([]byte, error) {
	start := time.Now()
	if err := s.check(ctx, "decompress", payload); err != nil {
		return nil, err
	}
	text, err := s.codec.Decode(payload)
	if err != nil {
		s.metrics.failed("decompress", len(payload))
		s.logf("decompress: %v", err)
		return nil, status.Errorf(codes.InvalidArgument, "compressed data: %v", err)
	}
	out := EncodeUnits(text)
	s.metrics.done("decompress", len(payload), len(out), start)
	return out, nil
}

func toframe(data []byte, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return &frame{data: data}, nil
}

func compressHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(frame)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return toframe(srv.(CodecServer).Compress(ctx, in.data))
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: compressMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return toframe(srv.(CodecServer).Compress(ctx, req.(*frame).data))
	}
	return interceptor(ctx, in, info, handler)
}

func decompressHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(frame)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return toframe(srv.(CodecServer).Decompress(ctx, in.data))
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: decompressMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return toframe(srv.(CodecServer).Decompress(ctx, req.(*frame).data))
	}
	return interceptor(ctx, in, info, handler)
}
