package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/loykin/frontc/internal/api"
	"github.com/loykin/frontc/internal/auth"
	"github.com/loykin/frontc/internal/common"
	"github.com/loykin/frontc/internal/constants"
	"github.com/loykin/frontc/internal/httpc"
	"github.com/loykin/frontc/internal/server"
	"github.com/loykin/frontc/internal/store"
	"github.com/loykin/frontc/internal/util"
	"gopkg.in/yaml.v3"
)

type LoggingConfig struct {
	Level         string `mapstructure:"level" yaml:"level"`                   // error, warn, info, debug
	Format        string `mapstructure:"format" yaml:"format"`                 // text, json, color
	MaskSensitive *bool  `mapstructure:"mask_sensitive" yaml:"mask_sensitive"` // enable/disable sensitive data masking
	Color         *bool  `mapstructure:"color" yaml:"color"`                   // enable/disable colorized output
}

type EndpointsConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	Form      string `mapstructure:"form" yaml:"form"`
}

type ClientConfig struct {
	BaseURL       string          `mapstructure:"base_url" yaml:"base_url"`
	Timeout       string          `mapstructure:"timeout" yaml:"timeout"`
	UserAgent     string          `mapstructure:"user_agent" yaml:"user_agent"`
	Insecure      bool            `mapstructure:"insecure" yaml:"insecure"`
	MinTLSVersion string          `mapstructure:"min_tls_version" yaml:"min_tls_version"`
	MaxTLSVersion string          `mapstructure:"max_tls_version" yaml:"max_tls_version"`
	Endpoints     EndpointsConfig `mapstructure:"endpoints" yaml:"endpoints"`
	Auth          *auth.Config    `mapstructure:"auth" yaml:"auth"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	Links           []server.Link `mapstructure:"links" yaml:"links"`
	JWTSecret       string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer       string        `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`
	ShutdownTimeout string        `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	Metrics         bool          `mapstructure:"metrics" yaml:"metrics"`
	MetricsPath     string        `mapstructure:"metrics_path" yaml:"metrics_path"`
	FormRate        float64       `mapstructure:"form_rate" yaml:"form_rate"` // submissions per second per client, 0 disables
	FormBurst       int           `mapstructure:"form_burst" yaml:"form_burst"`
}

type ConfigDoc struct {
	Client  ClientConfig  `mapstructure:"client" yaml:"client"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Store   store.Config  `mapstructure:"store" yaml:"store"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
}

func (c *ConfigDoc) Load(path string) error {
	clean := filepath.Clean(path)
	// Ensure path points to a regular file to avoid opening directories/special files
	if info, statErr := os.Stat(clean); statErr != nil || !info.Mode().IsRegular() {
		if statErr != nil {
			return statErr
		}
		return fmt.Errorf("not a regular file: %s", clean)
	}
	// #nosec G304 -- config path is provided intentionally by the user; cleaned and validated above
	f, err := os.Open(clean)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return yaml.NewDecoder(f).Decode(c)
}

func parseDuration(field, s string, def time.Duration) (time.Duration, error) {
	v, ok := util.TrimEmptyCheck(s)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", field, s)
	}
	return d, nil
}

// NewAPIClient builds the endpoint client from the client section.
func (c *ConfigDoc) NewAPIClient() (*api.Client, error) {
	timeout, err := parseDuration("client.timeout", c.Client.Timeout, constants.DefaultClientTimeout)
	if err != nil {
		return nil, err
	}
	if c.Client.Auth.Enabled() {
		if _, err := c.Client.Auth.Build(); err != nil {
			return nil, fmt.Errorf("client.auth: %w", err)
		}
	}
	h := &httpc.Httpc{
		TlsConfig: httpc.TLSConfig(c.Client.Insecure, c.Client.MinTLSVersion, c.Client.MaxTLSVersion),
		BaseURL:   util.TrimWithDefault(c.Client.BaseURL, constants.DefaultBaseURL),
		Timeout:   timeout,
		UserAgent: c.Client.UserAgent,
	}
	return api.NewClient(api.Options{
		HTTP: h,
		Endpoints: api.Endpoints{
			Directory: c.Client.Endpoints.Directory,
			Form:      c.Client.Endpoints.Form,
		},
		Auth:   c.Client.Auth,
		Logger: common.GetLogger().WithComponent("client"),
	}), nil
}

// ServerOptions maps the server section onto server.Options.
func (c *ConfigDoc) ServerOptions(contacts server.ContactSaver) (server.Options, error) {
	shutdown, err := parseDuration("server.shutdown_timeout", c.Server.ShutdownTimeout, constants.DefaultShutdownTimeout)
	if err != nil {
		return server.Options{}, err
	}
	if c.Server.FormRate < 0 || c.Server.FormBurst < 0 {
		return server.Options{}, fmt.Errorf("server.form_rate and server.form_burst must not be negative")
	}
	for i, l := range c.Server.Links {
		if _, ok := util.TrimEmptyCheck(l.Key); !ok {
			return server.Options{}, fmt.Errorf("server.links[%d]: missing key", i)
		}
	}
	opts := server.Options{
		Addr:              util.TrimWithDefault(c.Server.Addr, constants.DefaultServerAddr),
		Links:             c.Server.Links,
		Contacts:          contacts,
		DirectoryEndpoint: c.Client.Endpoints.Directory,
		FormEndpoint:      c.Client.Endpoints.Form,
		ShutdownTimeout:   shutdown,
		Logger:            common.GetLogger(),
		Metrics:           c.Server.Metrics,
		MetricsPath:       c.Server.MetricsPath,
		FormRate:          c.Server.FormRate,
		FormBurst:         c.Server.FormBurst,
	}
	if secret, ok := util.TrimEmptyCheck(c.Server.JWTSecret); ok {
		opts.JWT = &server.VerifyConfig{Secret: []byte(secret), AllowedIssuer: c.Server.JWTIssuer}
	}
	return opts, nil
}

func (c *ConfigDoc) parseLogLevel() (common.LogLevel, error) {
	switch util.TrimAndLower(c.Logging.Level) {
	case "error":
		return common.LogLevelError, nil
	case "warn", "warning":
		return common.LogLevelWarn, nil
	case "info", "":
		return common.LogLevelInfo, nil
	case "debug":
		return common.LogLevelDebug, nil
	default:
		return common.LogLevelInfo, fmt.Errorf("invalid logging level: %s (valid: error, warn, info, debug)", c.Logging.Level)
	}
}

// SetupLogging configures the global logger based on config settings
func (c *ConfigDoc) SetupLogging() error {
	level, err := c.parseLogLevel()
	if err != nil {
		return err
	}

	format := util.TrimAndLower(c.Logging.Format)
	useColor := false
	if c.Logging.Color != nil {
		useColor = *c.Logging.Color
	} else if format == "color" || format == "colour" {
		useColor = true
	}

	var logger *common.Logger
	switch format {
	case "json":
		logger = common.NewJSONLogger(level)
	case "color", "colour":
		logger = common.NewColorLogger(level)
	case "text", "":
		if useColor {
			logger = common.NewColorLogger(level)
		} else {
			logger = common.NewLogger(level)
		}
	default:
		return fmt.Errorf("invalid logging format: %s (valid: text, json, color)", c.Logging.Format)
	}

	maskingEnabled := true
	if c.Logging.MaskSensitive != nil {
		maskingEnabled = *c.Logging.MaskSensitive
	}
	logger.EnableMasking(maskingEnabled)
	common.SetDefaultLogger(logger)
	common.EnableMasking(maskingEnabled)

	logger.Debug("logging configured",
		"level", level.String(),
		"format", util.TrimWithDefault(format, "text"),
		"color", useColor,
		"mask_sensitive", maskingEnabled)
	return nil
}
