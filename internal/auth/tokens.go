// Package auth issues and verifies the access and refresh JWTs.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken wraps every verification failure. Expired tokens also
// match jwt.ErrTokenExpired.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload of both token kinds.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful register or login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenService signs and verifies HS256 tokens with independent secrets and
// lifetimes for access and refresh tokens.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenService returns a TokenService. It has no side effects beyond signing.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (s *TokenService) IssueAccessToken(username string) (string, error) {
	return s.sign(username, s.accessSecret, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(username string) (string, error) {
	return s.sign(username, s.refreshSecret, s.refreshTTL)
}

// IssuePair issues an access and a refresh token for username.
func (s *TokenService) IssuePair(username string) (TokenPair, error) {
	access, err := s.IssueAccessToken(username)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.IssueRefreshToken(username)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) VerifyAccess(token string) (*Claims, error) {
	return s.Verify(token, s.accessSecret)
}

func (s *TokenService) VerifyRefresh(token string) (*Claims, error) {
	return s.Verify(token, s.refreshSecret)
}

// Verify checks the signature, algorithm and expiry of token against secret.
func (s *TokenService) Verify(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *TokenService) sign(username string, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IsWellFormed reports whether token has the three dot-separated segments of a JWS.
func IsWellFormed(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" || strings.ContainsAny(p, " +/=") {
			return false
		}
	}
	return true
}
