package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "frontc",
	Short:         "Load the social links directory and submit the contact form",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	v := viper.GetViper()
	v.SetDefault("repeat", 1)
	v.SetDefault("format", "text")

	// Environment variables support: FRONTC_CONFIG, FRONTC_BASE_URL, ...
	v.SetEnvPrefix("FRONTC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to a config yaml (default ./"+defaultConfigPath+" when present)")
	pf.String("base-url", "", "server base URL (overrides client.base_url)")
	pf.String("log-level", "", "log level: error, warn, info, debug (overrides logging.level)")

	directoryCmd.Flags().String("search", "", "only load the entry with this key")
	directoryCmd.Flags().String("out", "", "append rows to this file instead of stdout")
	directoryCmd.Flags().Int("repeat", v.GetInt("repeat"), "number of times to run the loader")

	submitCmd.Flags().String("name", "", "value of the name field")
	submitCmd.Flags().String("email", "", "value of the email field")

	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().String("db", "", "sqlite database path (overrides store.sqlite.path)")

	contactsCmd.Flags().String("db", "", "sqlite database path (overrides store.sqlite.path)")
	contactsCmd.Flags().String("format", v.GetString("format"), "output format: text, json, yaml")

	_ = v.BindPFlag("config", pf.Lookup("config"))
	_ = v.BindPFlag("base_url", pf.Lookup("base-url"))
	_ = v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = v.BindPFlag("search", directoryCmd.Flags().Lookup("search"))
	_ = v.BindPFlag("out", directoryCmd.Flags().Lookup("out"))
	_ = v.BindPFlag("repeat", directoryCmd.Flags().Lookup("repeat"))
	_ = v.BindPFlag("name", submitCmd.Flags().Lookup("name"))
	_ = v.BindPFlag("email", submitCmd.Flags().Lookup("email"))
	_ = v.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("format", contactsCmd.Flags().Lookup("format"))

	rootCmd.AddCommand(directoryCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(contactsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exitHandler.LogFatalError(err, "command execution failed")
	}
}
