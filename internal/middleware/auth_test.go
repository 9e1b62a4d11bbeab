package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/gymsessions/internal/auth"
	"github.com/2beens/gymsessions/internal/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLoginChecker := NewMockloginChecker(ctrl)
	authMiddleware := middleware.NewAuthMiddlewareHandler(mockLoginChecker)

	mockLoginChecker.EXPECT().UserID(gomock.Any(), "valid-token").Return(7, nil).AnyTimes()
	mockLoginChecker.EXPECT().UserID(gomock.Any(), "invalid-token").Return(0, auth.ErrNotLogged).AnyTimes()
	mockLoginChecker.EXPECT().UserID(gomock.Any(), "broken-redis").Return(0, errors.New("redis down")).AnyTimes()

	testCases := []struct {
		name               string
		path               string
		method             string
		token              string
		authHeader         string
		expectedStatusCode int
		expectedUserID     int
	}{
		{
			name:               "AllowedPathWithoutToken",
			path:               "/version",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "LoginWithoutToken",
			path:               "/a/login",
			method:             "POST",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Options",
			path:               "/sessions/start",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "NotAllowedPathWithoutToken",
			path:               "/sessions/active",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidToken",
			path:               "/sessions/active",
			method:             "GET",
			token:              "valid-token",
			expectedStatusCode: http.StatusOK,
			expectedUserID:     7,
		},
		{
			name:               "ValidBearerToken",
			path:               "/mcp",
			method:             "POST",
			authHeader:         "Bearer valid-token",
			expectedStatusCode: http.StatusOK,
			expectedUserID:     7,
		},
		{
			name:               "NonBearerAuthorization",
			path:               "/mcp",
			method:             "POST",
			authHeader:         "Basic dXNlcjpwYXNz",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "InvalidToken",
			path:               "/sessions/active",
			method:             "GET",
			token:              "invalid-token",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "LoginCheckError",
			path:               "/sessions/active",
			method:             "GET",
			token:              "broken-redis",
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			assert.NoError(t, err)
			if tc.token != "" {
				req.Header.Add(middleware.TokenHeader, tc.token)
			}
			if tc.authHeader != "" {
				req.Header.Add("Authorization", tc.authHeader)
			}

			var gotUserID int
			rr := httptest.NewRecorder()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = auth.UserIDFromContext(r.Context())
			})
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.expectedUserID, gotUserID)
		})
	}
}

func TestRequestToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, middleware.RequestToken(req))

	req.Header.Set("Authorization", "Bearer  abc ")
	assert.Equal(t, "abc", middleware.RequestToken(req))

	req.Header.Set(middleware.TokenHeader, "xyz")
	assert.Equal(t, "xyz", middleware.RequestToken(req))
}
