package misc_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/2beens/gymsessions/internal/auth"
	"github.com/2beens/gymsessions/internal/middleware"
	"github.com/2beens/gymsessions/internal/misc"
	"github.com/2beens/gymsessions/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testRequestRateLimiter struct {
	// key to remaining requests
	limits map[string]int
}

func (l *testRequestRateLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	res := &redis_rate.Result{Limit: limit}
	remaining, ok := l.limits[key]
	if !ok || remaining == 0 {
		return res, nil
	}
	res.Allowed = remaining
	l.limits[key]--
	return res, nil
}

func setupRouter(t *testing.T, authService *MockauthService, limiter middleware.RequestRateLimiter) *mux.Router {
	t.Helper()
	r := mux.NewRouter()
	handler := misc.NewHandler("v1.2.3", authService)
	handler.SetupRoutes(r, limiter, metrics.NewTestManager(), 15)
	return r
}

func TestHandler_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	mainRouter := setupRouter(t, NewMockauthService(ctrl), &testRequestRateLimiter{})

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"root-get":       {name: "root", path: "/", method: "GET"},
		"root-post":      {name: "root", path: "/", method: "POST"},
		"root-options":   {name: "root", path: "/", method: "OPTIONS"},
		"version":        {name: "version", path: "/version", method: "GET"},
		"login":          {name: "login", path: "/a/login", method: "POST"},
		"logout":         {name: "logout", path: "/a/logout", method: "POST"},
		"logout-options": {name: "logout", path: "/a/logout", method: "OPTIONS"},
	} {
		t.Run(caseName, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			routeMatch := &mux.RouteMatch{}
			muxRoute := mainRouter.Get(route.name)
			require.NotNil(t, muxRoute)
			assert.True(t, muxRoute.Match(req, routeMatch), caseName)
		})
	}
}

func TestHandler_RootAndVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := setupRouter(t, NewMockauthService(ctrl), &testRequestRateLimiter{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "I'm OK, thanks ;)", rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/version", nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "v1.2.3", rr.Body.String())
}

func TestHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	authService := NewMockauthService(ctrl)
	limiter := &testRequestRateLimiter{limits: map[string]int{}}
	r := setupRouter(t, authService, limiter)

	newLoginReq := func(body string, contentType string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/a/login", strings.NewReader(body))
		req.Header.Set("Content-Type", contentType)
		return req
	}

	// rate limited, no requests allowed for this caller yet
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, newLoginReq(`{"username":"ana","password":"pass"}`, "application/json"))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)

	limiter.limits["login||ip:192.0.2.1"] = 100

	t.Run("json ok", func(t *testing.T) {
		authService.EXPECT().
			Login(gomock.Any(), auth.Credentials{Username: "ana", Password: "pass"}, gomock.Any()).
			Return("token-123", nil)

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, newLoginReq(`{"username":"ana","password":"pass"}`, "application/json"))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"token":"token-123"}`, rr.Body.String())
	})

	t.Run("form ok", func(t *testing.T) {
		authService.EXPECT().
			Login(gomock.Any(), auth.Credentials{Username: "ana", Password: "pass"}, gomock.Any()).
			Return("token-456", nil)

		form := url.Values{}
		form.Add("username", "ana")
		form.Add("password", "pass")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, newLoginReq(form.Encode(), "application/x-www-form-urlencoded"))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"token":"token-456"}`, rr.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, newLoginReq(`{"password":"pass"}`, "application/json"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "error, username empty\n", rr.Body.String())

		rr = httptest.NewRecorder()
		r.ServeHTTP(rr, newLoginReq(`{"username":"ana"}`, "application/json"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "error, password empty\n", rr.Body.String())
	})

	t.Run("malformed json", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, newLoginReq(`{"username":`, "application/json"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("wrong credentials", func(t *testing.T) {
		authService.EXPECT().
			Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", auth.ErrWrongPassword)

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, newLoginReq(`{"username":"ana","password":"nope"}`, "application/json"))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "error, wrong credentials\n", rr.Body.String())
	})

	t.Run("internal error", func(t *testing.T) {
		authService.EXPECT().
			Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("redis down"))

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, newLoginReq(`{"username":"ana","password":"pass"}`, "application/json"))
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("login time passed through", func(t *testing.T) {
		before := time.Now()
		authService.EXPECT().
			Login(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ auth.Credentials, createdAt time.Time) (string, error) {
				assert.False(t, createdAt.Before(before))
				return "token-789", nil
			})

		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, newLoginReq(`{"username":"ana","password":"pass"}`, "application/json"))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestHandler_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	authService := NewMockauthService(ctrl)
	limiter := &testRequestRateLimiter{limits: map[string]int{"login||ip:192.0.2.1": 100}}
	r := setupRouter(t, authService, limiter)

	t.Run("no token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/a/logout", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("options", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/a/logout", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "POST, OPTIONS", rr.Header().Get("Allow"))
	})

	t.Run("unknown token", func(t *testing.T) {
		authService.EXPECT().Logout(gomock.Any(), "stale").Return(false, nil)
		req := httptest.NewRequest(http.MethodPost, "/a/logout", nil)
		req.Header.Set(middleware.TokenHeader, "stale")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("logout ok with bearer token", func(t *testing.T) {
		authService.EXPECT().Logout(gomock.Any(), "token-123").Return(true, nil)
		req := httptest.NewRequest(http.MethodPost, "/a/logout", nil)
		req.Header.Set("Authorization", "Bearer token-123")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "logged-out", rr.Body.String())
	})

	t.Run("logout error", func(t *testing.T) {
		authService.EXPECT().Logout(gomock.Any(), "token-123").Return(false, errors.New("redis down"))
		req := httptest.NewRequest(http.MethodPost, "/a/logout", nil)
		req.Header.Set(middleware.TokenHeader, "token-123")
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
