package middleware

import (
	"io"
	"net/http"
)

// MaxRequestBodyBytes caps request bodies; the largest payload is a plan snapshot.
const MaxRequestBodyBytes = 1 << 20

// LimitAndDrainRequest caps the request body size, and drains and closes it once the handler is done.
func LimitAndDrainRequest(maxBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
