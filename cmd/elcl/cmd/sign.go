package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/erbsland-dev/erbsland-conf-go/sign"
)

var signingPerson string

var signCmd = &cobra.Command{
	Use:   "sign file",
	Short: "Sign a document in place with the configured passphrase",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return errors.New("need exactly one file argument")
		}
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		if cfg.SignPassphrase == "" {
			return errNoPassphrase
		}
		signer := &sign.Signer{
			SigningPerson: signingPerson,
			Sign:          hmacSigningFunc(cfg.SignPassphrase),
		}
		if err := signer.SignFile(args[0], args[0]); err != nil {
			return err
		}
		log.WithField("file", args[0]).Info("document signed")
		return nil
	},
}

func init() {
	signCmd.Flags().StringVar(&signingPerson, "person", "", "label recorded with the signing operation")
	rootCmd.AddCommand(signCmd)
}
