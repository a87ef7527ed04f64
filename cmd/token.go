package main

import (
	"context"
	"fmt"
	"time"

	"domainmon/internal/auth"
	"domainmon/internal/config"
	"domainmon/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// tokenCommand constructs the 'token' subcommand that generates a signed
// bearer token for a given username and TTL using the configured secret.
func tokenCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generates a bearer token for the given username",
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			TTL, _ := cmd.Flags().GetDuration("ttl")

			issuer := auth.NewTokenIssuer(cfg.JWT.Secret, TTL)
			signed, err := issuer.Issue(username)
			if err != nil {
				logger.Fatal(context.Background(), "could not sign token", zap.Error(err))
			}

			fmt.Println(signed) //nolint: forbidigo
		},
	}

	cmd.Flags().String("username", "", "Account username the token is issued for")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token TTL (e.g., 30s, 15m, 1h)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}
