package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erbsland-dev/erbsland-conf-go/conf"
)

var validateCmd = &cobra.Command{
	Use:   "validate file...",
	Short: "Parse and verify the signature of one or more documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			_ = cmd.Help()
			return errors.New("need at least one file argument")
		}
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		if cfg.SignPassphrase == "" {
			return errNoPassphrase
		}
		failed := false
		for _, p := range args {
			_, err := conf.ParseFile(p, conf.Options{
				AccessPolicy:       cfg.AccessPolicy(),
				KnownFeatures:      cfg.KnownFeatures,
				SignatureValidator: hmacValidator{passphrase: cfg.SignPassphrase},
				WithDigest:         true,
				Log:                log,
			})
			if err != nil {
				fmt.Printf("%s: ERROR: %s\n", p, err)
				failed = true
				continue
			}
			fmt.Printf("%s: valid\n", p)
		}
		if failed {
			return errors.New("one or more documents failed validation")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
