package middleware

import (
	"net/http"

	"github.com/kbukum/lipsync/util"
)

// WhisperX documents for long recordings with character timings run to tens
// of megabytes.
const defaultMaxBodySize = 32 * 1024 * 1024 // 32MB

// BodySizeLimit caps assemble and process request bodies at maxSize, given
// as a size string such as "32MB" (server.max_body_size). Reading past the
// cap fails with *http.MaxBytesError, which the routes answer with 413.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
