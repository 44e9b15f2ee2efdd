package main

import (
	"context"
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
	"github.com/loykin/frontc/cmd/frontc/config"
	"github.com/loykin/frontc/internal/common"
	"github.com/loykin/frontc/internal/store"
	"github.com/loykin/frontc/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List the contacts stored by the development server",
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		_ = v.BindPFlag("db", cmd.Flags().Lookup("db"))
		doc, err := loadConfig(v)
		if err != nil {
			return err
		}
		return runContacts(cmd.Context(), doc, v.GetString("format"), cmd.OutOrStdout())
	},
}

func runContacts(ctx context.Context, doc *config.ConfigDoc, format string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(ctx, doc.Store)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	contacts, err := st.ListContacts(ctx)
	if err != nil {
		return err
	}
	common.LogInfo("contacts listed", "count", len(contacts), "driver", util.TrimWithDefault(doc.Store.Driver, store.DriverSqlite))
	return printContacts(out, contacts, format)
}

func printContacts(out io.Writer, contacts []store.Contact, format string) error {
	switch util.TrimAndLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if contacts == nil {
			contacts = []store.Contact{}
		}
		return enc.Encode(contacts)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer func() { _ = enc.Close() }()
		return enc.Encode(contacts)
	case "text", "":
		if len(contacts) == 0 {
			_, err := fmt.Fprintln(out, "no contacts")
			return err
		}
		for _, c := range contacts {
			if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n", c.CreatedAt.Format(time.RFC3339), c.Name, c.Email); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid: text, json, yaml)", format)
	}
}
