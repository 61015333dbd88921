package grpcserver

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/stonesign/plaque-cms/internal/identity"
)

// callerField reports the caller id, or "anonymous".
func callerField(ctx context.Context) zap.Field {
	if u := identity.UserFromCtx(ctx); u != nil {
		return zap.Int64("caller", u.ID)
	}
	return zap.String("caller", "anonymous")
}

func levelFor(code codes.Code) zapcore.Level {
	switch code {
	case codes.Internal, codes.Unknown:
		return zapcore.ErrorLevel
	case codes.Unauthenticated, codes.PermissionDenied:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// LoggingUnary logs one line per procedure call: method, status code, caller,
// duration and peer. Inputs and results are never logged.
func LoggingUnary(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		code := status.Code(err)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			callerField(ctx),
			zap.Duration("dur", time.Since(start)),
		}
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			fields = append(fields, zap.String("peer", p.Addr.String()))
		}
		log.Log(levelFor(code), "procedure call", fields...)
		return resp, err
	}
}

// RecoverUnary turns a panicking procedure into codes.Internal.
func RecoverUnary(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("procedure panicked",
					zap.String("method", info.FullMethod),
					zap.Any("reason", r),
					zap.ByteString("stack", debug.Stack()),
				)
				resp, err = nil, status.Error(codes.Internal, "internal error")
			}
		}()
		return next(ctx, req)
	}
}
