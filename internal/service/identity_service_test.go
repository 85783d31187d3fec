package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportsvc/internal/config"
	"reportsvc/internal/domain"
	"reportsvc/internal/service"
)

const testSecret = "test-secret-key-for-unit-tests"

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestDecodeToken_AllClaims(t *testing.T) {
	userID := uuid.New()
	roleID := uuid.New()
	token := signToken(t, jwt.MapClaims{
		"email":  "ana@example.com",
		"name":   "Ana",
		"userId": userID.String(),
		"roleId": roleID.String(),
		"exp":    time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	identity, err := service.DecodeToken(token, testSecret)

	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, roleID, identity.RoleID)
	assert.Equal(t, "ana@example.com", identity.Email)
	assert.Equal(t, "Ana", identity.Name)
}

func TestDecodeToken_AbsentClaimsAreZero(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"email": "only@example.com"}, testSecret)

	identity, err := service.DecodeToken(token, testSecret)

	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, identity.UserID)
	assert.Equal(t, uuid.Nil, identity.RoleID)
	assert.Equal(t, "only@example.com", identity.Email)
	assert.Empty(t, identity.Name)
}

func TestDecodeToken_Empty(t *testing.T) {
	identity, err := service.DecodeToken("", testSecret)

	assert.Nil(t, identity)
	assert.ErrorIs(t, err, domain.ErrEmptyToken)
}

func TestDecodeToken_InvalidTokens(t *testing.T) {
	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": uuid.NewString()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not-a-token"},
		{"wrong secret", signToken(t, jwt.MapClaims{"userId": uuid.NewString()}, "another-secret")},
		{"expired", signToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Minute).Unix()}, testSecret)},
		{"unsigned", noneToken},
		{"user id not a uuid", signToken(t, jwt.MapClaims{"userId": "42"}, testSecret)},
		{"role id not a string", signToken(t, jwt.MapClaims{"roleId": 7}, testSecret)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := service.DecodeToken(tt.token, testSecret)

			assert.Nil(t, identity)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestIdentityService_Decode_StripsBearerPrefix(t *testing.T) {
	svc := service.NewIdentityService(config.JWTConfig{Secret: testSecret})
	userID := uuid.New()
	token := signToken(t, jwt.MapClaims{"userId": userID.String()}, testSecret)

	for _, header := range []string{"Bearer " + token, "bearer " + token, token} {
		identity, err := svc.Decode(header)

		require.NoError(t, err, header)
		assert.Equal(t, userID, identity.UserID)
	}
}

func TestIdentityService_Decode_EmptyHeader(t *testing.T) {
	svc := service.NewIdentityService(config.JWTConfig{Secret: testSecret})

	for _, header := range []string{"", "Bearer ", "   "} {
		_, err := svc.Decode(header)
		assert.ErrorIs(t, err, domain.ErrEmptyToken, "header %q", header)
	}
}
