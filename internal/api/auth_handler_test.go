package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overlaylab/rater-api/internal/api"
	"github.com/overlaylab/rater-api/internal/api/shared"
	"github.com/overlaylab/rater-api/internal/config"
	"github.com/overlaylab/rater-api/internal/service/auth"
)

func newAuthHandler(t *testing.T, provider api.BackendProvider) *api.AuthHandler {
	t.Helper()
	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "test-secret-key-thats-at-least-32-characters",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return api.NewAuthHandler(provider, jwtService, auth.NewBcryptVerifier())
}

func TestLogin(t *testing.T) {
	provider := newTestProvider(t)
	handler := newAuthHandler(t, provider)

	login := func(email, password string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"`+email+`","password":"`+password+`"}`))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		return rec
	}

	t.Run("valid credentials", func(t *testing.T) {
		rec := login(testEmail, testPassword)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.AuthResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, testRaterID, resp.RaterID)
		assert.NotEmpty(t, resp.Token)
		assert.True(t, resp.ShowHelp, "first login should open the help screen")
	})

	t.Run("help flag cleared after first login", func(t *testing.T) {
		rec := login(testEmail, testPassword)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.AuthResponse
		decodeBody(t, rec, &resp)
		assert.False(t, resp.ShowHelp)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		wrongPassword := login(testEmail, "not-the-password")
		unknownEmail := login("nobody@example.com", testPassword)

		require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)

		var a, b shared.ErrorResponse
		decodeBody(t, wrongPassword, &a)
		decodeBody(t, unknownEmail, &b)
		assert.Equal(t, a.Error, b.Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{nope"))
		rec := httptest.NewRecorder()
		handler.Login(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := login("", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginWithoutDatabase(t *testing.T) {
	handler := newAuthHandler(t, &testProvider{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"`+testEmail+`","password":"`+testPassword+`"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLoginTokenIsUsable(t *testing.T) {
	provider := newTestProvider(t)
	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "test-secret-key-thats-at-least-32-characters",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	handler := api.NewAuthHandler(provider, jwtService, auth.NewBcryptVerifier())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"`+testEmail+`","password":"`+testPassword+`"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.AuthResponse
	decodeBody(t, rec, &resp)

	claims, err := jwtService.ValidateToken(req.Context(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, testRaterID, claims.RaterID)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}
