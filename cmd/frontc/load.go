package main

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/loykin/frontc/cmd/frontc/config"
	"github.com/loykin/frontc/internal/common"
	"github.com/spf13/viper"
)

const defaultConfigPath = "frontc.yaml"

// loadConfig reads the config document, applies flag and env overrides and
// installs the configured logger. A missing default config file is not an error.
func loadConfig(v *viper.Viper) (*config.ConfigDoc, error) {
	doc := &config.ConfigDoc{}
	path := strings.TrimSpace(v.GetString("config"))
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}
	found := true
	if err := doc.Load(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		found = false
	}

	if s := strings.TrimSpace(v.GetString("base_url")); s != "" {
		doc.Client.BaseURL = s
	}
	if s := strings.TrimSpace(v.GetString("log_level")); s != "" {
		doc.Logging.Level = s
	}
	if s := strings.TrimSpace(v.GetString("addr")); s != "" {
		doc.Server.Addr = s
	}
	if s := strings.TrimSpace(v.GetString("db")); s != "" {
		doc.Store.SQLite.Path = s
	}

	if err := doc.SetupLogging(); err != nil {
		return nil, err
	}
	common.LogDebug("config resolved", "path", path, "found", found, "base_url", doc.Client.BaseURL)
	return doc, nil
}
