package main

import (
	"context"
	"io"

	"github.com/loykin/frontc/cmd/frontc/config"
	"github.com/loykin/frontc/internal/common"
	"github.com/loykin/frontc/internal/form"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the contact form and print the status alert",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		doc, err := loadConfig(v)
		if err != nil {
			return err
		}
		// fields are read when the submitter asks for them
		src := form.FuncSource(func(field string) string { return v.GetString(field) })
		_, err = runSubmit(cmd.Context(), doc, src, cmd.OutOrStdout())
		return err
	},
}

// runSubmit performs one submission and writes the alert line to out. The
// returned bool reports whether a status was shown; error alerts still
// exit 0.
func runSubmit(ctx context.Context, doc *config.ConfigDoc, src form.Source, out io.Writer) (bool, error) {
	client, err := doc.NewAPIClient()
	if err != nil {
		return false, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s := form.NewSubmitter(client, &form.WriterNotifier{W: out})
	s.Logger = common.GetLogger().WithComponent("form")
	return s.HandleSubmit(ctx, src), nil
}
