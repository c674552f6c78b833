package middleware

import (
	"context"
	"net/http"

	"github.com/annotext/emoji-annotation-platform/pkg/logger"
	"github.com/oklog/ulid/v2"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID assigns each request a ULID (or trusts an incoming
// X-Request-ID), stores it in the context, and echoes it on the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = ulid.Make().String()
			}
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			ctx = logger.WithRequestID(ctx, id)
			w.Header().Set(requestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID returns the request ID stored in ctx, or the empty string.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
