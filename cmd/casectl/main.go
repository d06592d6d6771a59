// Command casectl is the operator tool for the rescue service: schema
// migrations, case inspection and blob cleanup.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"rescue/internal/backend"
	"rescue/internal/domain"
	"rescue/internal/infra"
)

var (
	cfg    *infra.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "casectl",
	Short:         "Operate the rescue case store",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		c, err := infra.LoadStoreConfig()
		if err != nil {
			return err
		}
		cfg = c
		logger = infra.NewLogger(cfg.AppEnv, cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, casesCmd, sweepCmd)
}

// openStore opens the configured store. The caller closes it.
func openStore(ctx context.Context) (domain.Store, error) {
	return backend.Open(ctx, cfg, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "casectl:", err)
		os.Exit(1)
	}
}
