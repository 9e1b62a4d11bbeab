package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/2beens/gymsessions/internal/auth"
	"github.com/2beens/gymsessions/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

const TokenHeader = "X-GYM-TOKEN"

type loginChecker interface {
	UserID(ctx context.Context, token string) (int, error)
}

type AuthMiddlewareHandler struct {
	loginChecker loginChecker
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(loginChecker loginChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		loginChecker: loginChecker,
		allowedPaths: map[string]bool{
			// misc handler:
			"/":        true,
			"/version": true,

			// login-logout:
			"/a/login":  true,
			"/a/logout": true,
		},
	}
}

// RequestToken reads the auth token from the custom header, or from a bearer Authorization header.
func RequestToken(r *http.Request) string {
	if token := r.Header.Get(TokenHeader); token != "" {
		return token
	}
	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// AuthCheck resolves the token to a user id and puts it in the request context.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := RequestToken(r)
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			userID, err := h.loginChecker.UserID(ctx, authToken)
			if err != nil {
				if errors.Is(err, auth.ErrNotLogged) {
					log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
					span.SetStatus(codes.Error, "not-logged")
				} else {
					log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
					span.SetStatus(codes.Error, "check-logged-err")
					span.RecordError(err)
				}
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}

			span.SetAttributes(attribute.Int("user.id", userID))
			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.ContextWithUserID(r.Context(), userID)))
		})
	}
}
