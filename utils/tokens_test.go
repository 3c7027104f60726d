package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voice-local/api-go/config"
)

func newTestTokenService() *TokenService {
	return NewTokenService(config.JWTConfig{
		Secret:               "test-secret",
		AccessTokenLifetime:  time.Hour,
		RefreshTokenLifetime: 7 * 24 * time.Hour,
	})
}

func TestTokenService_IssuePairRoundTrip(t *testing.T) {
	svc := newTestTokenService()

	pair, err := svc.IssuePair(42)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	access, err := svc.Parse(pair.Access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), access.UserID)
	assert.Equal(t, TokenTypeAccess, access.TokenType)
	assert.NotEmpty(t, access.Id)

	refresh, err := svc.Parse(pair.Refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), refresh.UserID)
	assert.NotEqual(t, access.Id, refresh.Id)
}

func TestTokenService_RejectsWrongType(t *testing.T) {
	svc := newTestTokenService()
	pair, err := svc.IssuePair(1)
	require.NoError(t, err)

	_, err = svc.Parse(pair.Refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Parse(pair.Access, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := newTestTokenService()
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.IssueAccess(1)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Parse(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	other := NewTokenService(config.JWTConfig{Secret: "another-secret", AccessTokenLifetime: time.Hour})
	token, err := other.IssueAccess(1)
	require.NoError(t, err)

	_, err = newTestTokenService().Parse(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = newTestTokenService().Parse("not-a-jwt", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPassword(&hash, "correct horse"))
	assert.False(t, CheckPassword(&hash, "wrong horse"))
	assert.False(t, CheckPassword(nil, "correct horse"))
}
