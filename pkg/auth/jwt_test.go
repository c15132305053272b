package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-project-jwt-secret"

func signToken(t *testing.T, claims Claims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func baseClaims() Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: "admin@example.com",
		Role:  "authenticated",
	}
}

func TestTokenValidator_Validate(t *testing.T) {
	validator, err := NewTokenValidator(testSecret)
	require.NoError(t, err)

	user, err := validator.Validate(signToken(t, baseClaims(), testSecret))
	require.NoError(t, err)
	assert.Equal(t, "user-123", user.UserID)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, "authenticated", user.Role)

	serviceClaims := baseClaims()
	serviceClaims.Role = "service_role"
	user, err = validator.Validate(signToken(t, serviceClaims, testSecret))
	require.NoError(t, err)
	assert.Equal(t, "service_role", user.Role)
}

func TestTokenValidator_Rejections(t *testing.T) {
	validator, err := NewTokenValidator(testSecret)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := validator.Validate(signToken(t, baseClaims(), "some-other-secret"))
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := baseClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := validator.Validate(signToken(t, claims, testSecret))
		assert.Error(t, err)
	})

	t.Run("anon role", func(t *testing.T) {
		claims := baseClaims()
		claims.Role = "anon"
		_, err := validator.Validate(signToken(t, claims, testSecret))
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := validator.Validate("not-a-jwt")
		assert.Error(t, err)
	})
}

func TestNewTokenValidator_EmptySecret(t *testing.T) {
	_, err := NewTokenValidator("")
	assert.Error(t, err)
}

func TestUserContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, err := GetUserFromContext(ctx)
	assert.Error(t, err)

	user := &UserContext{UserID: "user-123", Role: "authenticated"}
	got, err := GetUserFromContext(WithUser(ctx, user))
	require.NoError(t, err)
	assert.Equal(t, user, got)
}
