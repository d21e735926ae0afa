package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// RequestLogger is a middleware to log HTTP requests. Map-API calls carry
// their query fields too, so a slow generation can be matched to its cache
// bucket in the logs.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)

		evt := log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.statusCode).
			Int("bytes", ww.bytes).
			Str("ip", r.RemoteAddr).
			Dur("duration", time.Since(start))

		if r.URL.Path == "/api/map" {
			q := r.URL.Query()
			evt = evt.
				Str("mode", q.Get("mode")).
				Str("bucket", coordBucket(q.Get("lat"), q.Get("lon")))
			if restore := q.Get("restore"); restore != "" {
				evt = evt.Int("restore_ids", len(strings.Split(restore, ",")))
			}
		}

		evt.Msg("Request processed")
	})
}

// coordBucket rounds raw lat/lon params the way the map cache keys them.
func coordBucket(lat, lon string) string {
	la, errLat := strconv.ParseFloat(lat, 64)
	lo, errLon := strconv.ParseFloat(lon, 64)
	if errLat != nil || errLon != nil {
		return ""
	}
	return fmt.Sprintf("%.3f_%.3f", la, lo)
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

// WriteHeader captures the status code before writing to the underlying response writer.
func (w *responseWriterWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Write counts the response bytes on their way out.
func (w *responseWriterWrapper) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}
