package jwtutil

import (
	"testing"
	"time"

	"pos-service/pkg/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.JWTConfig {
	return &config.JWTConfig{
		SigningKey:      "test-signing-key",
		ExpirationHours: 1,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	Initialize(testConfig())

	token, err := GenerateToken("cashier@demo.test", 42, 7, "cashier")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "cashier@demo.test", claims.Email)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, uint(7), claims.TenantID)
	assert.Equal(t, "cashier", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestValidateTokenWrongKey(t *testing.T) {
	Initialize(testConfig())
	token, err := GenerateToken("user@demo.test", 1, 1, "admin")
	require.NoError(t, err)

	Initialize(&config.JWTConfig{SigningKey: "another-key", ExpirationHours: 1})
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	Initialize(testConfig())
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	Initialize(testConfig())

	now := time.Now()
	claims := UserClaims{
		Email:    "user@demo.test",
		UserID:   1,
		TenantID: 1,
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testConfig().SigningKey))
	require.NoError(t, err)

	_, err = ValidateToken(signed)
	assert.Error(t, err)
}

func TestUninitializedConfig(t *testing.T) {
	Initialize(nil)
	defer Initialize(testConfig())

	_, err := GenerateToken("user@demo.test", 1, 1, "admin")
	assert.Error(t, err)

	_, err = ValidateToken("anything")
	assert.Error(t, err)
}

func TestIssuedBefore(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	claims := &UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(issued)},
	}

	// Issued strictly before the cutoff: stale
	assert.True(t, claims.IssuedBefore(issued.Add(time.Minute)))

	// Cutoff in the same wall second as issuance: not stale. The
	// issued-at claim only has second precision, so sub-second skew
	// must not invalidate a token minted alongside the change.
	assert.False(t, claims.IssuedBefore(issued.Add(500*time.Millisecond)))
	assert.False(t, claims.IssuedBefore(issued))

	// Cutoff before issuance: not stale
	assert.False(t, claims.IssuedBefore(issued.Add(-time.Minute)))
}

func TestIssuedBeforeMissingIssuedAt(t *testing.T) {
	claims := &UserClaims{}
	assert.True(t, claims.IssuedBefore(time.Now()))
}
