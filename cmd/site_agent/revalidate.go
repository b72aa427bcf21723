package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/landing-site/internal/bg"
	"github.com/jonathan/landing-site/internal/observability"
	"github.com/jonathan/landing-site/internal/revalidate"
	"github.com/jonathan/landing-site/internal/types"
)

var (
	revalidateScope      string
	revalidatePaths      []string
	revalidateSecondPass bool
	revalidateVerbose    bool
	revalidateOptions    appOptions
)

var revalidateCmd = &cobra.Command{
	Use:   "revalidate",
	Short: "Invalidate rendered pages",
	Long: `Invalidate the rendered pages of a scope with the same ordering and retries as the
webhook. The PostgreSQL render cache (DATABASE_URL) and the remote endpoint
(REVALIDATE_ENDPOINT) are the targets; the report is printed as JSON.`,
	RunE: runRevalidate,
}

func init() {
	revalidateCmd.Flags().StringVar(&revalidateScope, "scope", "", "Landing page slug (empty for the full site)")
	revalidateCmd.Flags().StringSliceVar(&revalidatePaths, "path", nil, "Explicit path to invalidate (repeatable)")
	revalidateCmd.Flags().BoolVar(&revalidateSecondPass, "second-pass", false, "Wait for the delayed second pass")
	revalidateCmd.Flags().BoolVarP(&revalidateVerbose, "verbose", "v", false, "Print a run summary to stderr")
	revalidateOptions.register(revalidateCmd)
	rootCmd.AddCommand(revalidateCmd)
}

func runRevalidate(cmd *cobra.Command, _ []string) error {
	req := types.AdminRevalidateRequest{Paths: revalidatePaths, Scope: revalidateScope}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, revalidateOptions)
	if err != nil {
		return err
	}
	defer a.close()

	if a.db == nil && a.webhook.Endpoint == "" {
		return fmt.Errorf("nothing to revalidate: set DATABASE_URL or REVALIDATE_ENDPOINT")
	}
	if !revalidateSecondPass {
		a.webhook.SecondPassDelay = 0
	}

	orchestrator, err := a.orchestrator(bg.Sync{})
	if err != nil {
		return err
	}
	report := orchestrator.Run(ctx, revalidate.ScopeForAdmin(req), "cli")
	if revalidateVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintReport(report)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d paths failed", len(report.Failed), len(report.Paths))
	}
	return nil
}
