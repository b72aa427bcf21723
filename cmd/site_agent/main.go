// Package main provides the site_agent CLI: the site server and its maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "site_agent",
	Short: "Marketing site server",
	Long:  "site_agent serves a CMS-driven marketing site and keeps its rendered pages fresh through scoped revalidation.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
