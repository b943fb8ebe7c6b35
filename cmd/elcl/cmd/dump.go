package cmd

import (
	"errors"
	"fmt"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/erbsland-dev/erbsland-conf-go/conf"
)

var dumpCmd = &cobra.Command{
	Use:   "dump file",
	Short: "Parse a document and pretty-print its value tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return errors.New("need exactly one file argument")
		}
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		doc, err := conf.ParseFile(args[0], conf.Options{
			AccessPolicy:  cfg.AccessPolicy(),
			KnownFeatures: cfg.KnownFeatures,
			Log:           log,
		})
		if err != nil {
			return err
		}
		fmt.Println(repr.String(doc))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
