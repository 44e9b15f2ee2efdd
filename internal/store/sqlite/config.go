package sqlite

type Config struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// ToDSN returns the DSN for the configured path, or "" for in-memory.
func (c *Config) ToDSN() string {
	if c == nil || c.Path == "" {
		return ""
	}
	return DSN(c.Path)
}
