package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
)

// BasicConfig holds configuration for Basic authentication.
type BasicConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Acquire returns a Basic auth header value constructed from Username and Password.
func (c BasicConfig) Acquire(_ context.Context) (string, error) {
	u := strings.TrimSpace(c.Username)
	p := strings.TrimSpace(c.Password)
	if u == "" || p == "" {
		return "", errors.New("basic: username and password are required")
	}
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(u+":"+p)), nil
}

// BearerConfig sends a static token.
type BearerConfig struct {
	Token string `mapstructure:"token"`
}

func (c BearerConfig) Acquire(_ context.Context) (string, error) {
	tok := strings.TrimSpace(c.Token)
	if tok == "" {
		return "", errors.New("bearer: token is required")
	}
	return "Bearer " + tok, nil
}
