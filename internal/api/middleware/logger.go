package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"palava-proof/pkg/logger"
)

// probePaths are polled by orchestrators and only logged at debug level
var probePaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

// Logger returns a middleware that logs one line per request, tagged with
// the chi request id
func Logger(log *logger.Logger) func(next http.Handler) http.Handler {
	log = log.WithComponent("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			reqLog := log.WithRequestID(middleware.GetReqID(r.Context()))
			reqLog.WithLevel(requestLevel(r.URL.Path, ww.Status())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}

func requestLevel(path string, status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.WarnLevel
	case probePaths[path]:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}
