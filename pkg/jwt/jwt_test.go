package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing"

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := NewService(testSecret, 15*time.Minute)

	staffID := uuid.New()
	token, err := service.GenerateAccessToken(staffID, "Maria Santos", "supervisor", []int{1, 2, 3})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, staffID, claims.StaffID)
	assert.Equal(t, "Maria Santos", claims.FullName)
	assert.Equal(t, "supervisor", claims.Role)
	assert.Equal(t, []int{1, 2, 3}, claims.Floors)
	assert.Equal(t, staffID.String(), claims.Subject)
}

func TestValidateAccessTokenFailures(t *testing.T) {
	service := NewService(testSecret, 15*time.Minute)

	t.Run("Garbage input", func(t *testing.T) {
		_, err := service.ValidateAccessToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewService("a-different-secret", 15*time.Minute)
		token, err := other.GenerateAccessToken(uuid.New(), "James Okafor", "housekeeper", nil)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("Expired token", func(t *testing.T) {
		expired := NewService(testSecret, -time.Minute)
		token, err := expired.GenerateAccessToken(uuid.New(), "James Okafor", "housekeeper", nil)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("Wrong signing method", func(t *testing.T) {
		// alg=none style tokens must never validate
		token := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{
			StaffID: uuid.New(),
		})
		signed, err := token.SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.ValidateAccessToken(signed)
		assert.Error(t, err)
	})
}

func TestIsTokenExpired(t *testing.T) {
	service := NewService(testSecret, 15*time.Minute)

	valid, err := service.GenerateAccessToken(uuid.New(), "Maria Santos", "supervisor", nil)
	require.NoError(t, err)
	assert.False(t, service.IsTokenExpired(valid))

	expiredService := NewService(testSecret, -time.Minute)
	expired, err := expiredService.GenerateAccessToken(uuid.New(), "Maria Santos", "supervisor", nil)
	require.NoError(t, err)
	assert.True(t, service.IsTokenExpired(expired))

	assert.True(t, service.IsTokenExpired("garbage"))
}

func TestExtractClaimsSkipsValidation(t *testing.T) {
	expiredService := NewService(testSecret, -time.Minute)
	staffID := uuid.New()
	token, err := expiredService.GenerateAccessToken(staffID, "Maria Santos", "supervisor", nil)
	require.NoError(t, err)

	// Extraction works even on an expired token
	claims, err := expiredService.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, staffID, claims.StaffID)
}
