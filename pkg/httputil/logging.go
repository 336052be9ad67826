package httputil

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cwrk-planet/course-relay/pkg/logger"
)

const maxLoggedBody = 4 << 10

// MiddlewareLogging логирует метод, путь, статус, длительность, тела запрос/ответ и X-Request-ID.
func MiddlewareLogging(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			var reqBody string
			if strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "json") && r.Body != nil {
				var buf bytes.Buffer
				b, _ := io.ReadAll(io.TeeReader(r.Body, &buf))
				r.Body = io.NopCloser(&buf)
				reqBody = truncate(string(b))
			}

			lrw := &logResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)

			reqID, _ := FromContext(r.Context())
			args := []any{
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", lrw.status,
				"bytes", lrw.bytes,
				"duration", time.Since(start).String(),
				"req_body", reqBody,
				"resp_body", truncate(lrw.body.String()),
			}
			args = append(args, logger.Args(logger.AttrsFromCtx(r.Context()))...)
			if lrw.hijacked {
				args = append(args, "upgraded", true)
			}

			log.Log(r.Context(), levelFor(lrw.status), "http request", args...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func truncate(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "...(truncated)"
}

type logResponseWriter struct {
	http.ResponseWriter
	status   int
	bytes    int
	body     bytes.Buffer
	hijacked bool
}

func (w *logResponseWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *logResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	if w.body.Len() < maxLoggedBody {
		w.body.Write(b)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n

	return n, err
}

func (w *logResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack нужен для websocket upgrade.
func (w *logResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("httputil: response writer does not support hijacking")
	}
	conn, rw, err := h.Hijack()
	if err == nil {
		w.hijacked = true
		if w.status == 0 {
			w.status = http.StatusSwitchingProtocols
		}
	}
	return conn, rw, err
}

func (w *logResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
