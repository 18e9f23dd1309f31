package grpcapi

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rshade/productsummary/internal/logging"
)

// TraceInterceptor copies the context trace ID into outgoing metadata.
func TraceInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		if traceID := logging.TraceIDFromContext(ctx); traceID != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, logging.TraceIDMetadataKey, traceID)
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// TimeoutInterceptor bounds every call by d. Zero disables it.
func TimeoutInterceptor(d time.Duration) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		if d <= 0 {
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// ServerTraceInterceptor reads the trace ID from incoming metadata (or makes
// one), attaches logger to the context and logs each call.
func ServerTraceInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	logger = logging.ComponentLogger(logger, "grpcapi")
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		traceID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(logging.TraceIDMetadataKey); len(vals) > 0 {
				traceID = vals[0]
			}
		}
		if traceID == "" {
			traceID = logging.NewTraceID()
		}
		ctx = logging.ContextWithTraceID(ctx, traceID)
		ctx = logger.WithContext(ctx)

		start := time.Now()
		resp, err := handler(ctx, req)

		event := logger.Info()
		if err != nil {
			event = logger.Warn().Err(err)
		}
		event.Ctx(ctx).
			Str("method", info.FullMethod).
			Str("code", status.Code(err).String()).
			Dur("duration", time.Since(start)).
			Msg("rpc handled")
		return resp, err
	}
}
