package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/techcatalog/image-resolver/internal/app"
)

// newResolveCmd creates the 'resolve' subcommand, which runs the image
// resolution pipeline over the configured catalog.
func newResolveCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Runs the image resolution pipeline",
		Long: `Loads the catalog dataset, resolves an image URL for every entry it can,
applies the manufacturer fallback pass, and rewrites the dataset plus its
metadata summary. The run always completes and writes output, even when every
single resolution fails.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve images but write nothing")
	return cmd
}

func runResolve(cmd *cobra.Command, dryRun bool) error {
	application, err := app.New(cfgFile)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := application.Run(ctx, app.RunOptions{DryRun: dryRun}); err != nil {
		return fmt.Errorf("run resolver: %w", err)
	}
	return nil
}
