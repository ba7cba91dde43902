package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *TokenService {
	return NewTokenService("access-secret", "refresh-secret", 3000*time.Second, 24*time.Hour)
}

func TestIssueAndVerify(t *testing.T) {
	s := newTestService()

	pair, err := s.IssuePair("alice1")
	require.NoError(t, err)
	assert.True(t, IsWellFormed(pair.AccessToken))
	assert.True(t, IsWellFormed(pair.RefreshToken))

	claims, err := s.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice1", claims.Username)
	assert.WithinDuration(t, time.Now().Add(3000*time.Second), claims.ExpiresAt.Time, 5*time.Second)

	claims, err = s.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "alice1", claims.Username)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestSecretsAreIndependent(t *testing.T) {
	s := newTestService()
	pair, err := s.IssuePair("alice1")
	require.NoError(t, err)

	_, err = s.VerifyRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.VerifyAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	s := newTestService()
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := s.IssueAccessToken("alice1")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	s := newTestService()
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Username: "alice1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := newTestService().VerifyAccess("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuedTokensAreUnique(t *testing.T) {
	s := newTestService()
	a, err := s.IssueRefreshToken("alice1")
	require.NoError(t, err)
	b, err := s.IssueRefreshToken("alice1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestIsWellFormed(t *testing.T) {
	assert.True(t, IsWellFormed("aaa.bbb.ccc"))
	assert.False(t, IsWellFormed("aaa.bbb"))
	assert.False(t, IsWellFormed("aaa..ccc"))
	assert.False(t, IsWellFormed("a a.bbb.ccc"))
	assert.False(t, IsWellFormed(""))
}
