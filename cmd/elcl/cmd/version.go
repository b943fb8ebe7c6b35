package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SupportedDocumentVersion is the `@version` value this build accepts
// (spec §4.5: "must be the text literal \"1.0\"").
const SupportedDocumentVersion = "1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the supported document version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(SupportedDocumentVersion)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
