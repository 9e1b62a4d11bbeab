package middleware

import (
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
)

func Cors(allowedOrigins []string) func(next http.Handler) http.Handler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			userAgent := r.Header.Get("User-Agent")
			isMCP := strings.HasPrefix(r.URL.Path, "/mcp")

			switch {
			case
				origins[origin],
				strings.HasPrefix(userAgent, "curl/"),
				strings.HasPrefix(userAgent, "test-agent"),
				// MCP clients often send no Origin
				isMCP:
				{
					allowOrigin := origin
					if allowOrigin == "" && isMCP {
						allowOrigin = "*"
					}
					w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
					w.Header().Set("Access-Control-Allow-Headers",
						"Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, "+TokenHeader+", "+RequestIDHeader+", MCP-Protocol-Version, MCP-Session-Id",
					)
					w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
				}
			default:
				log.Warnf("CORS: origin not allowed for path [%s] and origin [%s]", r.URL.Path, origin)
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
