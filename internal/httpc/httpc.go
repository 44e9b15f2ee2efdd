package httpc

import (
	"crypto/tls"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/frontc/internal/constants"
	"github.com/loykin/frontc/internal/util"
)

type Httpc struct {
	TlsConfig *tls.Config
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// New returns a resty.Client configured according to the receiver's settings.
// Defaults: MinVersion TLS1.3 when a TLS config is given with MinVersion zero,
// constants.DefaultClientTimeout when Timeout is zero.
// Redirects are followed and no retry policy is installed.
func (h *Httpc) New() *resty.Client {
	c := resty.New()
	c.SetHeader("User-Agent", util.TrimWithDefault(h.UserAgent, constants.DefaultUserAgent))

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultClientTimeout
	}
	c.SetTimeout(timeout)

	if base, ok := util.TrimEmptyCheck(h.BaseURL); ok {
		c.SetBaseURL(base)
	}

	cfg := h.TlsConfig
	if cfg == nil {
		return c
	}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS13
	}
	c.SetTLSClientConfig(cfg)
	return c
}

// ParseTLSVersion converts a TLS version string to the corresponding crypto/tls constant.
// Supports "1.2", "12", "tls1.2", "tls12" and the same forms for 1.0, 1.1 and 1.3.
// Returns 0 if the version string is not recognized.
func ParseTLSVersion(version string) uint16 {
	switch util.TrimAndLower(version) {
	case "1.0", "10", "tls1.0", "tls10":
		return tls.VersionTLS10
	case "1.1", "11", "tls1.1", "tls11":
		return tls.VersionTLS11
	case "1.2", "12", "tls1.2", "tls12":
		return tls.VersionTLS12
	case "1.3", "13", "tls1.3", "tls13":
		return tls.VersionTLS13
	default:
		return 0
	}
}

// TLSConfig builds a *tls.Config from textual bounds. It returns nil when
// nothing is configured so resty keeps its default transport settings.
func TLSConfig(insecure bool, minVersion, maxVersion string) *tls.Config {
	minV := ParseTLSVersion(minVersion)
	maxV := ParseTLSVersion(maxVersion)
	if !insecure && minV == 0 && maxV == 0 {
		return nil
	}
	// #nosec G402 -- bounds and verification are explicit user configuration
	cfg := &tls.Config{MinVersion: minV, MaxVersion: maxV}
	if insecure {
		// #nosec G402 -- allows self-signed development servers when explicitly configured
		cfg.InsecureSkipVerify = true
	}
	if minV == 0 && maxV != 0 && maxV < tls.VersionTLS13 {
		cfg.MinVersion = maxV
	}
	return cfg
}
