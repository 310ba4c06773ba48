// Package interceptor は gRPC サーバー用の共通インターセプターを提供します。
package interceptor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDHeader はリクエスト ID を運ぶメタデータキーです。
const RequestIDHeader = "x-request-id"

type requestIDKey struct{}

// RequestID はコンテキストに格納されたリクエスト ID を返します。
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Logging はリクエストごとに ID を払い出し、結果を logrus に記録します。
// 受信メタデータに x-request-id があればそれを引き継ぎます。
func Logging(logger *logrus.Entry) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := incomingRequestID(ctx)
		ctx = context.WithValue(ctx, requestIDKey{}, requestID)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		started := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		entry := logger.WithFields(logrus.Fields{
			"method":     info.FullMethod,
			"request_id": requestID,
			"code":       code.String(),
			"elapsed":    time.Since(started).String(),
		})
		switch code {
		case codes.OK:
			entry.Info("request handled")
		case codes.Internal, codes.Unknown, codes.Unavailable:
			entry.WithError(err).Error("request failed")
		default:
			entry.WithError(err).Warn("request rejected")
		}

		return resp, err
	}
}

func incomingRequestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(RequestIDHeader); len(values) > 0 && values[0] != "" {
			return values[0]
		}
	}
	return uuid.NewString()
}
