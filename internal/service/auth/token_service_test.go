package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

// newTestTokenService builds a service with an injectable clock.
func newTestTokenService(secret string, lifetime time.Duration, timeFunc func() time.Time) TokenService {
	return &hmacTokenService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
		clockSkew:     0,
	}
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(testAuthConfig("short"))
	assert.Error(t, err)

	svc, err := NewTokenService(testAuthConfig(testSecret))
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestIssueToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := 60 * time.Minute

	svc := newTestTokenService(testSecret, lifetime, func() time.Time {
		return fixedTime
	})

	token, expiresAt, err := svc.IssueToken(context.Background(), "packlane-admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, fixedTime.Add(lifetime), expiresAt)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, "packlane-admin", claims.Subject)
	assert.Equal(t, OwnerIDForSubject("packlane-admin"), claims.OwnerID)
	// Compare Unix timestamps to avoid timezone issues
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(lifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestOwnerIDForSubjectIsStable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, OwnerIDForSubject("packlane-admin"), OwnerIDForSubject("packlane-admin"))
	assert.NotEqual(t, OwnerIDForSubject("packlane-admin"), OwnerIDForSubject("someone-else"))
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := 60 * time.Minute
	wrongSecret := "wrong-secret-that-is-long-enough-for-testing"

	tests := []struct {
		name      string
		setupFunc func() (TokenService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (TokenService, string) {
				svc := newTestTokenService(testSecret, lifetime, func() time.Time {
					return fixedTime
				})
				token, _, _ := svc.IssueToken(context.Background(), "packlane-admin")
				return svc, token
			},
			wantErr: nil,
		},
		{
			name: "expired token",
			setupFunc: func() (TokenService, string) {
				genSvc := newTestTokenService(testSecret, lifetime, func() time.Time {
					return fixedTime
				})
				token, _, _ := genSvc.IssueToken(context.Background(), "packlane-admin")

				// Validate well after expiry.
				valSvc := newTestTokenService(testSecret, lifetime, func() time.Time {
					return fixedTime.Add(lifetime + time.Hour)
				})
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setupFunc: func() (TokenService, string) {
				genSvc := newTestTokenService(testSecret, lifetime, func() time.Time {
					return fixedTime
				})
				token, _, _ := genSvc.IssueToken(context.Background(), "packlane-admin")

				valSvc := newTestTokenService(wrongSecret, lifetime, func() time.Time {
					return fixedTime
				})
				return valSvc, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (TokenService, string) {
				svc := newTestTokenService(testSecret, lifetime, func() time.Time {
					return fixedTime
				})
				return svc, "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc()
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, "packlane-admin", claims.Subject)
			}
		})
	}
}
