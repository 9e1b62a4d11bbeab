package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/gymsessions/internal/auth"
	"github.com/2beens/gymsessions/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a 500 and logs it with the request id and user, if known.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					fields := log.Fields{
						"path":       req.URL.Path,
						"request_id": req.Header.Get(RequestIDHeader),
					}
					if userID, ok := auth.UserIDFromContext(req.Context()); ok {
						fields["user_id"] = userID
					}
					log.WithFields(fields).Errorf("http: panic serving request: %v\n%s", r, debug.Stack())
					if metricsManager != nil {
						metricsManager.CounterHandleRequestPanic.Inc()
					}
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, req)
		})
	}
}
