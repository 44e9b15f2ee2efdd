package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/loykin/frontc/cmd/frontc/config"
	"github.com/loykin/frontc/internal/server"
	"github.com/loykin/frontc/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development server for the directory and form endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		_ = v.BindPFlag("db", cmd.Flags().Lookup("db"))
		doc, err := loadConfig(v)
		if err != nil {
			return err
		}
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, doc)
	},
}

func runServe(ctx context.Context, doc *config.ConfigDoc) error {
	st, err := store.Open(ctx, doc.Store)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	opts, err := doc.ServerOptions(st)
	if err != nil {
		return err
	}
	srv, err := server.New(opts)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
