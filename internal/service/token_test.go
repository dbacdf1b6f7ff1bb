package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/sns-backend/config"
	"github.com/d60-Lab/sns-backend/internal/model"
)

func newTestTokenService() *TokenService {
	return NewTokenService(config.JWT{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
}

func TestTokenIssueAndVerify(t *testing.T) {
	svc := newTestTokenService()
	u := &model.User{ID: "u1", Username: "alice", Email: "alice@example.com"}

	pair, err := svc.Issue(u)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEmpty(t, pair.RefreshTokenID)

	ac, err := svc.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", ac.UserID)
	assert.Equal(t, "alice", ac.Username)
	assert.Equal(t, "alice@example.com", ac.Email)

	rc, err := svc.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", rc.UserID)
	assert.Equal(t, pair.RefreshTokenID, rc.ID)
}

// access 与 refresh 密钥互不相认，令牌类别不可混用。
func TestTokenCrossSecretRejected(t *testing.T) {
	svc := newTestTokenService()
	pair, err := svc.Issue(&model.User{ID: "u1", Username: "alice", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = svc.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = svc.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenExpiry(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	svc := newTestTokenService().WithClock(func() time.Time { return clock })

	pair, err := svc.Issue(&model.User{ID: "u1", Username: "alice", Email: "a@example.com"})
	require.NoError(t, err)

	clock = base.Add(14 * time.Minute)
	_, err = svc.VerifyAccess(pair.AccessToken)
	assert.NoError(t, err)

	clock = base.Add(16 * time.Minute)
	_, err = svc.VerifyAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// refresh 仍有效
	_, err = svc.VerifyRefresh(pair.RefreshToken)
	assert.NoError(t, err)

	clock = base.Add(7*24*time.Hour + time.Minute)
	_, err = svc.VerifyRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenMalformed(t *testing.T) {
	svc := newTestTokenService()

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.VerifyAccess(raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, "input %q", raw)
	}
}
