package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/packlane/packlane-api/internal/config"
	"github.com/packlane/packlane-api/internal/service/auth"
)

func newTestAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse battery staple"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.AuthConfig{
		JWTSecret:            "test-secret-that-is-long-enough-for-testing",
		TokenExpiryMinutes:   60,
		OperatorName:         "packlane-admin",
		OperatorPasswordHash: string(hash),
	}

	tokens, err := auth.NewTokenService(cfg)
	require.NoError(t, err)

	return NewAuthHandler(auth.NewOperator(cfg), tokens)
}

func TestAuthHandler_IssueToken(t *testing.T) {
	t.Parallel()

	h := newTestAuthHandler(t)

	body := `{"name":"packlane-admin","password":"correct horse battery staple"}`
	rec := httptest.NewRecorder()
	h.IssueToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.False(t, resp.ExpiresAt.IsZero())
}

func TestAuthHandler_IssueTokenBadCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"name":"packlane-admin","password":"nope"}`, http.StatusUnauthorized},
		{"wrong name", `{"name":"intruder","password":"correct horse battery staple"}`, http.StatusUnauthorized},
		{"missing fields", `{"name":"packlane-admin"}`, http.StatusBadRequest},
		{"malformed json", `{"name": `, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := newTestAuthHandler(t)
			rec := httptest.NewRecorder()
			h.IssueToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(tc.body)))

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestAuthHandler_IssuedTokenValidates(t *testing.T) {
	t.Parallel()

	h := newTestAuthHandler(t)

	body := `{"name":"packlane-admin","password":"correct horse battery staple"}`
	rec := httptest.NewRecorder()
	h.IssueToken(rec, httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	claims, err := h.tokens.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "packlane-admin", claims.Subject)
	assert.Equal(t, auth.OwnerIDForSubject("packlane-admin"), claims.OwnerID)
}
