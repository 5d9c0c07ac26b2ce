package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/libreton/libreton-api/internal/types"
)

// newSessionMiddleware wires RequireSession to a service with a real session
// store so the token lifecycle is exercised end to end.
func newSessionMiddleware(t *testing.T) (func(http.Handler) http.Handler, *AuthServiceImpl, *MockAuthRepo) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockAuthRepo)
	sessions := NewCacheSessionStore(types.DefaultSessionTTL)
	service := NewAuthService(mockRepo, sessions, NewBcryptHasher(bcrypt.MinCost), types.DefaultSessionTTL, logger)
	return RequireSession(service, logger), service, mockRepo
}

func issueSession(t *testing.T, service *AuthServiceImpl, mockRepo *MockAuthRepo) string {
	t.Helper()
	ctx := context.Background()
	user := activeUser(t, "alice", "secret1")
	mockRepo.On("GetActiveUserByUsername", ctx, "alice").Return(user, nil).Once()
	result, err := service.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	return result.SessionToken
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) types.Response {
	t.Helper()
	var resp types.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestRequireSession(t *testing.T) {
	okHandler := func(sawUser *bool) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := GetUserInfoFromContext(r.Context())
			*sawUser = ok
			w.WriteHeader(http.StatusOK)
		})
	}

	t.Run("missing header yields 401 with the login prompt", func(t *testing.T) {
		mw, _, _ := newSessionMiddleware(t)
		var sawUser bool
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products", nil)

		mw(okHandler(&sawUser)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, sawUser)
		resp := decodeEnvelope(t, rec)
		assert.False(t, resp.Success)
		assert.Equal(t, types.MsgUnauthorizedAccess, resp.Message)
	})

	t.Run("unknown token yields 401 with the expiry message", func(t *testing.T) {
		mw, _, _ := newSessionMiddleware(t)
		var sawUser bool
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set(types.SessionHeaderName, "never-issued")

		mw(okHandler(&sawUser)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, sawUser)
		resp := decodeEnvelope(t, rec)
		assert.False(t, resp.Success)
		assert.Equal(t, types.MsgSessionExpired, resp.Message)
	})

	t.Run("valid token passes and exposes the user snapshot", func(t *testing.T) {
		mw, service, mockRepo := newSessionMiddleware(t)
		token := issueSession(t, service, mockRepo)

		var got types.UserInfo
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info, ok := GetUserInfoFromContext(r.Context())
			require.True(t, ok)
			got = info
			w.WriteHeader(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set(types.SessionHeaderName, token)

		mw(inner).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice", got.Username)
	})

	t.Run("token stops working once logged out", func(t *testing.T) {
		mw, service, mockRepo := newSessionMiddleware(t)
		token := issueSession(t, service, mockRepo)
		require.NoError(t, service.Logout(context.Background(), token))

		var sawUser bool
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set(types.SessionHeaderName, token)

		mw(okHandler(&sawUser)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeEnvelope(t, rec)
		assert.Equal(t, types.MsgSessionExpired, resp.Message)
	})

	t.Run("token stops working after its absolute expiry", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		mockRepo := new(MockAuthRepo)
		sessions := NewCacheSessionStore(types.DefaultSessionTTL)
		service := NewAuthService(mockRepo, sessions, NewBcryptHasher(bcrypt.MinCost), 20*time.Millisecond, logger)
		mw := RequireSession(service, logger)
		token := issueSession(t, service, mockRepo)

		time.Sleep(30 * time.Millisecond)

		var sawUser bool
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set(types.SessionHeaderName, token)

		mw(okHandler(&sawUser)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		resp := decodeEnvelope(t, rec)
		assert.Equal(t, types.MsgSessionExpired, resp.Message)
	})

	t.Run("exempt paths pass through without a token", func(t *testing.T) {
		mw, _, _ := newSessionMiddleware(t)

		for _, path := range []string{
			"/auth/login",
			"/auth/register",
			"/swagger/index.html",
			"/ping",
			"/metrics",
		} {
			var sawUser bool
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, path, nil)

			mw(okHandler(&sawUser)).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, "path %s should be exempt", path)
			assert.False(t, sawUser, "exempt paths carry no user snapshot")
		}
	})
}
