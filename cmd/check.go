package main

import (
	"context"
	"fmt"
	"os"

	"domainmon/internal/config"
	"domainmon/internal/monitor"
	"domainmon/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// checkCommand constructs the 'check' subcommand that probes the given
// domains once and prints the results without touching the store.
func checkCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <domain> [domain...]",
		Short: "Probes the given domains and prints their health",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			prober := monitor.NewProber(cfg.Monitor.ProbeTimeout)

			failed := false
			for _, arg := range args {
				host, err := monitor.ValidateHost(arg)
				if err != nil {
					logger.Warn(ctx, "skipping invalid domain", zap.String("input", arg), zap.Error(err))
					failed = true

					continue
				}

				rec := prober.Probe(ctx, host)
				fmt.Printf("%s\t%s\t%s\t%s\n", rec.Domain, rec.Status, rec.SSLExpiration, rec.SSLIssuer) //nolint: forbidigo
			}

			if failed {
				os.Exit(1)
			}
		},
	}

	return cmd
}
