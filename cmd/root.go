// Package cmd defines and implements the CLI commands for the imageresolver
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imageresolver",
		Short: "Resolves manufacturer product images for the catalog dataset.",
		Long: `imageresolver discovers, ranks, and verifies product image URLs for
catalog entries by scraping each manufacturer's own site. Entries with a
curated override never touch the network; entries that cannot be resolved
directly fall back to an image already found for the same manufacturer.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML; defaults apply without one)")
	cmd.AddCommand(newResolveCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
