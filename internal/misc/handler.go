package misc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/gymsessions/internal/auth"
	"github.com/2beens/gymsessions/internal/middleware"
	"github.com/2beens/gymsessions/internal/telemetry/metrics"
	"github.com/2beens/gymsessions/internal/telemetry/tracing"
	"github.com/2beens/gymsessions/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=misc_test

type authService interface {
	Login(ctx context.Context, creds auth.Credentials, createdAt time.Time) (string, error)
	Logout(ctx context.Context, token string) (bool, error)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type Handler struct {
	versionInfo string
	authService authService
	now         func() time.Time
}

func NewHandler(versionInfo string, authService authService) *Handler {
	return &Handler{
		versionInfo: versionInfo,
		authService: authService,
		now:         time.Now,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	loginAllowedPerMin int,
) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "POST", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")

	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("POST", "OPTIONS").Name("logout")

	loginSubrouter.Use(middleware.RateLimit(rateLimiter, "login", loginAllowedPerMin, metricsManager))
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var loginReq LoginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		loginReq = LoginRequest{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
		}
	}

	if loginReq.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if loginReq.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	span.SetAttributes(attribute.String("login.username", loginReq.Username))

	token, err := handler.authService.Login(ctx, auth.Credentials{
		Username: loginReq.Username,
		Password: loginReq.Password,
	}, handler.now())
	if err != nil {
		if errors.Is(err, auth.ErrWrongPassword) {
			log.Tracef("failed login attempt for user: %s", loginReq.Username)
			http.Error(w, "error, wrong credentials", http.StatusBadRequest)
			return
		}
		log.Errorf("login failed for %s: %s", loginReq.Username, err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("new login success: %s", loginReq.Username)
	pkg.WriteJSON(w, LoginResponse{Token: token}, http.StatusOK)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := middleware.RequestToken(r)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := handler.authService.Logout(ctx, authToken)
	if err != nil {
		log.Errorf("logout %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusInternalServerError)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	log.Trace("logout success")
	pkg.WriteTextResponseOK(w, "logged-out")
}
