package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/loykin/frontc/internal/constants"
)

// JWTConfig mints an HS256 token per request. The dev server verifies the
// same secret on the form endpoint.
type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	TTLSeconds int64  `mapstructure:"ttl_seconds"`
	Subject    string `mapstructure:"sub"`
	Issuer     string `mapstructure:"iss"`
}

// Issue creates a signed JWT token string.
func (c JWTConfig) Issue(now time.Time) (string, error) {
	if c.Secret == "" {
		return "", errors.New("jwt: secret required")
	}
	ttl := time.Duration(c.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = constants.DefaultJWTTTL
	}
	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if c.Subject != "" {
		claims["sub"] = c.Subject
	}
	if c.Issuer != "" {
		claims["iss"] = c.Issuer
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.Secret))
}

func (c JWTConfig) Acquire(_ context.Context) (string, error) {
	tok, err := c.Issue(time.Now())
	if err != nil {
		return "", err
	}
	return "Bearer " + tok, nil
}
