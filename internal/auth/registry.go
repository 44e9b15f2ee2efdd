// Package auth resolves the optional Authorization header attached to the
// directory and form requests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ErrUnsupportedType is returned when no provider is registered for a type key.
var ErrUnsupportedType = errors.New("auth: unsupported provider type")

// Method acquires a header value (e.g. "Basic ...", "Bearer ...").
type Method interface {
	Acquire(ctx context.Context) (value string, err error)
}

// Factory builds a Method instance from a loosely-typed spec map.
type Factory func(spec map[string]interface{}) (Method, error)

var providers = map[string]Factory{}

func normalizeKey(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Register registers an auth provider factory under a type key.
func Register(typ string, f Factory) {
	key := normalizeKey(typ)
	if key == "" || f == nil {
		return
	}
	providers[key] = f
}

// Config selects a provider and carries its provider-specific settings.
type Config struct {
	Type   string                 `mapstructure:"type" yaml:"type"`
	Header string                 `mapstructure:"header" yaml:"header"`
	Config map[string]interface{} `mapstructure:"config" yaml:"config"`
}

// Enabled reports whether an auth provider is configured at all.
func (c *Config) Enabled() bool {
	return c != nil && normalizeKey(c.Type) != ""
}

// HeaderName returns the header the acquired value is sent in.
func (c *Config) HeaderName() string {
	if h := strings.TrimSpace(c.Header); h != "" {
		return h
	}
	return "Authorization"
}

// Build turns the config into a Method.
func (c *Config) Build() (Method, error) {
	f, ok := providers[normalizeKey(c.Type)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, c.Type)
	}
	return f(c.Config)
}

// Acquire builds the provider and returns (header, value).
func (c *Config) Acquire(ctx context.Context) (string, string, error) {
	m, err := c.Build()
	if err != nil {
		return "", "", err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	v, err := m.Acquire(ctx)
	if err != nil {
		return "", "", err
	}
	return c.HeaderName(), v, nil
}

func decode[T any](spec map[string]interface{}) (T, error) {
	var out T
	if err := mapstructure.Decode(spec, &out); err != nil {
		return out, fmt.Errorf("auth: decode config: %w", err)
	}
	return out, nil
}

func init() {
	Register("basic", func(spec map[string]interface{}) (Method, error) {
		c, err := decode[BasicConfig](spec)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
	Register("bearer", func(spec map[string]interface{}) (Method, error) {
		c, err := decode[BearerConfig](spec)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
	Register("oauth2_client_credentials", func(spec map[string]interface{}) (Method, error) {
		c, err := decode[ClientCredentialsConfig](spec)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
	Register("jwt", func(spec map[string]interface{}) (Method, error) {
		c, err := decode[JWTConfig](spec)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}
