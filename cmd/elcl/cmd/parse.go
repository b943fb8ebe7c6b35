package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/erbsland-dev/erbsland-conf-go/conf"
)

var parseCmd = &cobra.Command{
	Use:   "parse file...",
	Short: "Parse one or more documents and report success or the first error in each",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			_ = cmd.Help()
			return errors.New("need at least one file argument")
		}
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		return parseFiles(args, cfg)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

// parseFiles parses each file independently and concurrently — spec §5
// explicitly allows two parsers to run concurrently in independent
// scopes, and each file here gets its own conf.Options/Parse call, never
// sharing a Document under construction the way `@include` does.
func parseFiles(paths []string, cfg Config) error {
	results := make([]string, len(paths))
	var g errgroup.Group
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			opts := conf.Options{
				AccessPolicy:  cfg.AccessPolicy(),
				KnownFeatures: cfg.KnownFeatures,
				Log:           log,
			}
			if cfg.SignPassphrase != "" {
				opts.SignatureValidator = hmacValidator{passphrase: cfg.SignPassphrase}
			}
			doc, err := conf.ParseFile(p, opts)
			if err != nil {
				results[i] = fmt.Sprintf("%s: ERROR: %s", p, err)
				return nil
			}
			results[i] = fmt.Sprintf("%s: OK (version %s, %d top-level entries)", p, doc.Version, doc.Size())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	failed := false
	for _, r := range results {
		fmt.Println(r)
		if strings.Contains(r, "ERROR") {
			failed = true
		}
	}
	if failed {
		return errors.New("one or more documents failed to parse")
	}
	return nil
}
