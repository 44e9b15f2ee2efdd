package postgresql

import (
	"fmt"

	"github.com/loykin/frontc/internal/constants"
	"github.com/loykin/frontc/internal/util"
)

type Config struct {
	DSN      string `mapstructure:"dsn" yaml:"dsn"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	DBName   string `mapstructure:"dbname" yaml:"dbname"`
	SSLMode  string `mapstructure:"sslmode" yaml:"sslmode"`
}

// ToDSN prefers an explicit DSN; otherwise it builds one from components
// when a host is provided.
func (p *Config) ToDSN() string {
	if dsn, ok := util.TrimEmptyCheck(p.DSN); ok {
		return dsn
	}
	host, ok := util.TrimEmptyCheck(p.Host)
	if !ok {
		return ""
	}
	port := p.Port
	if port == 0 {
		port = constants.DefaultPostgresPort
	}
	ssl := util.TrimWithDefault(p.SSLMode, constants.DefaultPostgresSSLMode)
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		util.TrimWithDefault(p.User, ""), util.TrimWithDefault(p.Password, ""), host, port,
		util.TrimWithDefault(p.DBName, ""), ssl)
}
