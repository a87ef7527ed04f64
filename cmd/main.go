// Package main provides the CLI entrypoint for the domain monitoring service.
// It wires subcommands (serve, token, check), loads configuration, and
// initializes logging.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"domainmon/internal/config"
	"domainmon/pkg/logger"
	"domainmon/pkg/storage/jsonfile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// getStore creates the JSON file store using configuration values.
func getStore(ctx context.Context, cfg *config.Config) *jsonfile.Store {
	strg, err := jsonfile.New(jsonfile.Options{
		DataDir: cfg.Store.DataDir,
		Strict:  cfg.Store.Strict,
	})
	if err != nil {
		logger.Fatal(ctx, "could not create json file storage", zap.Error(err))
	}

	return strg
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use: "domainmon",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		serveCommand(cfg),
		tokenCommand(cfg),
		checkCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
