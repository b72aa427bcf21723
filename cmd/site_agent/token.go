package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/server"
)

var tokenSubject string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an admin API token",
	Long:  "Issue a bearer token for the /api/admin endpoints, signed with ADMIN_JWT_SECRET.",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Who the token is issued to (required)")
	if err := tokenCmd.MarkFlagRequired("subject"); err != nil {
		panic(fmt.Sprintf("failed to mark subject flag as required: %v", err))
	}
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	token, err := server.NewJWTService(cfg).GenerateToken(tokenSubject)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
