package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/landing-site/internal/db"
	"github.com/jonathan/landing-site/internal/observability"
)

var (
	runsLimit int
	runsJSON  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent revalidation runs",
	Long:  "List the revalidation runs recorded in PostgreSQL (DATABASE_URL), newest first.",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Number of runs to show")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "Print runs as JSON")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if runsLimit < 1 || runsLimit > 200 {
		return fmt.Errorf("--limit must be between 1 and 200")
	}
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := database.ListRevalidationRuns(ctx, runsLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if runsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No revalidation runs recorded.")
		return nil
	}
	observability.NewPrinter(out).PrintRuns(runs)
	return nil
}
