// Package auth issues and validates the bearer credentials used by field
// auditors. It is a thin collaborator around the audit pipeline, not part of
// the rendering core.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenConfig holds HS256 signing parameters.
type TokenConfig struct {
	Issuer     string
	SigningKey []byte
	AccessTTL  time.Duration
}

// AccessClaims are the claims carried by an access token. Subject is the
// user id.
type AccessClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and parses HS256 access tokens.
type TokenManager struct {
	cfg TokenConfig
}

func NewTokenManager(cfg TokenConfig) *TokenManager {
	return &TokenManager{cfg: cfg}
}

// Issue signs an access token for the given user.
func (t *TokenManager) Issue(userID, name string, now time.Time) (string, error) {
	claims := AccessClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.AccessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.SigningKey)
}

// Parse validates a signed token and returns its claims.
func (t *TokenManager) Parse(signed string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.cfg.SigningKey, nil
	}, jwt.WithIssuer(t.cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
