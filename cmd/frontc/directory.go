package main

import (
	"context"

	"github.com/loykin/frontc/cmd/frontc/config"
	"github.com/loykin/frontc/internal/common"
	"github.com/loykin/frontc/internal/directory"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var directoryCmd = &cobra.Command{
	Use:   "directory",
	Short: "Fetch the social links and append one table row per link",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		doc, err := loadConfig(v)
		if err != nil {
			return err
		}
		var c directory.Container = directory.WriterContainer{W: cmd.OutOrStdout()}
		if out := v.GetString("out"); out != "" {
			c = directory.FileContainer{Path: out}
		}
		return runDirectory(cmd.Context(), doc, c, v.GetString("search"), v.GetInt("repeat"))
	},
}

// runDirectory invokes the loader repeat times against the same container.
// Load failures end in the log; only configuration errors are returned.
func runDirectory(ctx context.Context, doc *config.ConfigDoc, c directory.Container, search string, repeat int) error {
	client, err := doc.NewAPIClient()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if repeat < 1 {
		common.LogWarn("repeat below 1, running the loader once", "repeat", repeat)
		repeat = 1
	}
	logger := common.GetLogger().WithComponent("directory")
	total := 0
	for i := 0; i < repeat; i++ {
		n, _ := directory.Load(ctx, client, c,
			directory.WithSearch(search),
			directory.WithLogger(logger),
		)
		total += n
	}
	logger.Debug("directory loaded", "rows", total, "runs", repeat)
	return nil
}
