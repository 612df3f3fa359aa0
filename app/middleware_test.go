package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

func strptr(s string) *string {
	return &s
}

func TestRecoverPanic(t *testing.T) {
	app, _ := newTestApplication(t)

	// Create a test HTTP handler that will panic
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	// Wrap the handler with the recoverPanic middleware
	middleware := app.recoverPanic(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()

	middleware.ServeHTTP(res, req)

	assert.Equal(t, res.Code, http.StatusInternalServerError)
	assert.Equal(t, "close", res.Header().Get("Connection"))
}

func TestAuthenticateMiddleware(t *testing.T) {
	app, _ := newTestApplication(t)

	ctx := context.Background()

	user, err := app.userService.CreateUser(ctx, "testuser", "Test User", "salainen")
	assert.NoError(t, err)

	token, err := app.userService.LoginUser(ctx, "testuser", "salainen")
	assert.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     *string
		expectedStatus int
		expectAnon     bool
	}{
		{
			name:           "no authentication header",
			authHeader:     nil,
			expectedStatus: http.StatusOK,
			expectAnon:     true,
		},
		{
			name:           "wrong scheme",
			authHeader:     strptr("Basic abc123"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage bearer token",
			authHeader:     strptr("Bearer not-a-token"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "valid bearer token",
			authHeader:     strptr("Bearer " + token),
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got := app.getUserContext(r)
				assert.NotNil(t, got)

				if tt.expectAnon {
					assert.True(t, got.IsAnonymous())
				} else {
					assert.Equal(t, user.ID, got.ID)
				}

				w.WriteHeader(http.StatusOK)
			})

			middleware := app.authenticate(handler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != nil {
				req.Header.Set("Authorization", *tt.authHeader)
			}

			res := httptest.NewRecorder()
			middleware.ServeHTTP(res, req)

			assert.Equal(t, tt.expectedStatus, res.Code)
		})
	}
}

func TestRequireAuthUser(t *testing.T) {
	app, _ := newTestApplication(t)

	handler := app.requireAuthUser(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Exercise the guard directly with the anonymous user in the context,
	// the same state the authenticate middleware leaves for requests without
	// an Authorization header.
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = app.createUserContext(req, &userservice.AnonymousUser)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRateLimit(t *testing.T) {
	// The rate limiter does not touch the database, so a bare application
	// value is enough here.
	app := &application{
		config: &Config{
			LimiterEnabled: true,
			LimiterRPS:     2,
			LimiterBurst:   2,
		},
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := app.rateLimit(handler)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		res := httptest.NewRecorder()
		middleware.ServeHTTP(res, req)
		assert.Equal(t, http.StatusOK, res.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := httptest.NewRecorder()
	middleware.ServeHTTP(res, req)
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
}
