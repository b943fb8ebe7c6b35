// Package cmd implements the elcl CLI command tree: parse, dump, sign,
// validate, version. Structured the way the teacher's cli/cmd package
// builds sqlcode's CLI — a package-level rootCmd, one file per
// subcommand, persistent flags read once in Execute.
package cmd

import (
	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "elcl",
		Short:        "elcl",
		SilenceUsage: true,
		Long:         `CLI tool for parsing, signing, and validating Erbsland Configuration Language documents.`,
	}

	configPath string
	logLevel   string
	suffix     string

	// log carries a per-invocation correlation id on every line, the
	// same idea as the teacher's sqltest.Fixture using gofrs/uuid for
	// unique per-run identifiers.
	log logrus.FieldLogger
)

// Execute runs the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "elcl.yaml", "path to the CLI config file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVarP(&suffix, "suffix", "s", "", "override the config's default include suffix requirement")
	cobra.OnInitialize(initLogger)
	return rootCmd.Execute()
}

func initLogger() {
	logger := logrus.New()
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	id, err := uuid.NewV4()
	if err != nil {
		log = logger
		return
	}
	log = logger.WithField("run_id", id.String())
}
