package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/landing-site/internal/observability"
)

var (
	pathsScope   string
	pathsRoutes  bool
	pathsOptions appOptions
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the routes a revalidation would cover",
	Long: `Print the routes of a scope: the whole site when --scope is empty, otherwise the subtree
of the landing page with that slug. With --routes the visible routes are printed instead,
grouped by kind as they appear in the sitemap.`,
	RunE: runPaths,
}

func init() {
	pathsCmd.Flags().StringVar(&pathsScope, "scope", "", "Landing page slug (empty for the full site)")
	pathsCmd.Flags().BoolVar(&pathsRoutes, "routes", false, "Print visible routes with their kinds")
	pathsOptions.register(pathsCmd)
	rootCmd.AddCommand(pathsCmd)
}

func runPaths(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := newApp(ctx, pathsOptions)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	if pathsRoutes {
		routes, err := a.routes.Routes(ctx)
		if err != nil {
			return fmt.Errorf("failed to list routes: %w", err)
		}
		observability.NewPrinter(out).PrintRoutes(routes)
		return nil
	}

	for _, p := range a.routes.Resolve(ctx, pathsScope).Slice() {
		fmt.Fprintln(out, p)
	}
	return nil
}
