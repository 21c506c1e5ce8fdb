package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/semantria/semantria-go/internal/common/httpx"
)

// SetTimeout cancels the request context after timeout. Handlers that
// overrun it get a 503 when nothing was written yet.
func SetTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			rw := httpx.NewResponseWriter(w)

			next.ServeHTTP(rw, r.WithContext(ctx))

			if ctx.Err() == context.DeadlineExceeded {
				if !rw.Written() {
					httpx.ErrRequestTimeout().Send(rw)
				}
				log.Ctx(ctx).Error().Dur("timeout", timeout).Msg("request timed out")
			}
		})
	}
}
