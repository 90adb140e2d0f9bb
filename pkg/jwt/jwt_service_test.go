package jwt

import (
	"testing"
	"time"

	"foodgram-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *jwtService {
	return &jwtService{secretKey: "test-secret", issuer: "FOODGRAM"}
}

func TestUserTokenRoundTrip(t *testing.T) {
	service := newTestService()

	token := service.GenerateTokenUser(42)
	require.NotEmpty(t, token)

	userID, err := service.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestUserTokenWrongSecret(t *testing.T) {
	token := newTestService().GenerateTokenUser(42)

	other := &jwtService{secretKey: "other-secret", issuer: "FOODGRAM"}
	_, err := other.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestUserTokenGarbage(t *testing.T) {
	_, err := newTestService().GetUserIDByToken("not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestResetTokenRoundTrip(t *testing.T) {
	service := newTestService()

	token, err := service.GenerateResetToken("chef@example.com", 30*time.Minute)
	require.NoError(t, err)

	email, err := service.ValidateResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "chef@example.com", email)
}

func TestResetTokenExpired(t *testing.T) {
	service := newTestService()

	token, err := service.GenerateResetToken("chef@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = service.ValidateResetToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestResetTokenIsNotAUserToken(t *testing.T) {
	service := newTestService()

	token, err := service.GenerateResetToken("chef@example.com", 30*time.Minute)
	require.NoError(t, err)

	_, err = service.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
