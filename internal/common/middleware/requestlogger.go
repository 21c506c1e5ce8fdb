// Package middleware provides the request logging, panic recovery and
// timeout middleware of the mock service.
package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/semantria/semantria-go/internal/common/httpx"
	"github.com/semantria/semantria-go/internal/common/logtrace"
	"github.com/semantria/semantria-go/internal/common/uuid"
)

// RequestIDHeader carries the request id back to the caller.
const RequestIDHeader = "X-Semantria-Request-ID"

// RequestLogger assigns a request id, attaches a logger carrying it to the
// request context and logs the request and its outcome.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.RequestID()

		ctx := logtrace.WithRequestID(r.Context(), requestID)
		ctx = log.With().Str("request_id", requestID).Logger().WithContext(ctx)
		w.Header().Set(RequestIDHeader, requestID)

		log.Ctx(ctx).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_ip", r.RemoteAddr).
			Str("app", r.Header.Get("x-app-name")).
			Msg("incoming request")

		rw := httpx.NewResponseWriter(w)
		next.ServeHTTP(rw, r.WithContext(ctx))

		log.Ctx(ctx).Debug().
			Int("status", rw.Status()).
			Int("bytes", rw.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}
