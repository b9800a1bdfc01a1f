package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityapp "github.com/merrysway/storefront/internal/application/identity"
)

func TestAuthHandler_RegisterLoginMe(t *testing.T) {
	s := newTestServer(t)
	account := map[string]any{"username": "ana", "email": "ana@example.com", "password": "correct-horse"}

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", account)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[envelope[identityapp.UserResponse]](t, w)
	assert.True(t, registered.Success)
	assert.Equal(t, "ana@example.com", registered.Data.Email)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", account)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_ALREADY_EXISTS")
	})

	t.Run("short password rejected", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
			"username": "ben", "email": "ben@example.com", "password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_VALIDATION")
	})

	t.Run("wrong password", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "ana@example.com", "password": "wrong-password"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, decode[envelope[any]](t, w).Success)
	})

	t.Run("unknown email looks like a wrong password", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "nobody@example.com", "password": "whatever1"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login then me", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{"email": "ana@example.com", "password": "correct-horse"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		token := decode[envelope[identityapp.TokenResponse]](t, w)
		assert.Equal(t, "bearer", token.Data.TokenType)
		require.NotEmpty(t, token.Data.AccessToken)

		w = s.do(t, http.MethodGet, "/api/v1/user/me", token.Data.AccessToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		me := decode[envelope[identityapp.UserResponse]](t, w)
		assert.Equal(t, "ana", me.Data.Username)
	})
}

func TestHealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[envelope[HealthResponse]](t, w)
		assert.Equal(t, "healthy", resp.Data.Status)
		assert.Equal(t, "test", resp.Data.Version)
	})

	t.Run("database down", func(t *testing.T) {
		s := newTestServer(t)
		require.NoError(t, s.db.Close())
		w := s.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", decode[envelope[HealthResponse]](t, w).Data.Status)
	})
}
