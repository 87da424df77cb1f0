package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID is the request id header.
const HeaderRequestID = "X-Request-Id"

// RequestID sets an X-Request-Id on every request and response, keeping a
// client-supplied one.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
				r.Header.Set(HeaderRequestID, id)
			}
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r)
		})
	}
}
