package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-Id"

// LogRequest tags every request with an id, reusing a valid incoming one, and logs it.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(requestID); err != nil {
				requestID = uuid.NewString()
				r.Header.Set(RequestIDHeader, requestID)
			}
			w.Header().Set(RequestIDHeader, requestID)

			begin := time.Now()
			next.ServeHTTP(w, r)

			log.WithFields(log.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"ua":         r.Header.Get("User-Agent"),
				"took":       time.Since(begin).String(),
			}).Trace("request served")
		})
	}
}
