package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/library-seat-api/internal/models"
	appErrors "github.com/noah-isme/library-seat-api/pkg/errors"
)

func newAuthServiceForTest(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(nil, nil, AuthConfig{
		AdminEmail:        "admin@library.local",
		AdminPasswordHash: string(hash),
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
	})
}

func TestAuthServiceLoginIssuesAdminToken(t *testing.T) {
	svc := newAuthServiceForTest(t)

	resp, err := svc.Login(models.AdminLoginRequest{Email: "Admin@Library.local", Password: "s3cret!"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.EqualValues(t, 3600, resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, "admin@library.local", claims.Email)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthServiceForTest(t)

	_, err := svc.Login(models.AdminLoginRequest{Email: "admin@library.local", Password: "wrong"})
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	_, err = svc.Login(models.AdminLoginRequest{Email: "someone@library.local", Password: "s3cret!"})
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))

	_, err = svc.Login(models.AdminLoginRequest{Email: "not-an-email", Password: "s3cret!"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceLoginWithoutConfiguredHash(t *testing.T) {
	svc := NewAuthService(nil, nil, AuthConfig{AdminEmail: "admin@library.local", AccessTokenSecret: "x"})
	_, err := svc.Login(models.AdminLoginRequest{Email: "admin@library.local", Password: "anything"})
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServiceValidateTokenRejections(t *testing.T) {
	svc := newAuthServiceForTest(t)
	resp, err := svc.Login(models.AdminLoginRequest{Email: "admin@library.local", Password: "s3cret!"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized), "expired token")
	svc.now = time.Now

	other := NewAuthService(nil, nil, AuthConfig{AccessTokenSecret: "different"})
	_, err = other.ValidateToken(resp.AccessToken)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized), "wrong secret")

	viewer := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{
		Email: "display@library.local",
		Role:  "VIEWER",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := viewer.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
}
