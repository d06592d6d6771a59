package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"rescue/internal/infra"
	"rescue/internal/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status]",
	Short: "Apply or inspect the Postgres schema",
	Long: `Run the embedded goose migrations against DATABASE_URL.

Only the postgres driver has a schema; bolt and firestore create their
buckets and collections on first use.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"up", "down", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.StoreDriver != infra.DriverPostgres {
			return fmt.Errorf("migrate: STORE_DRIVER is %q, migrations only apply to %q", cfg.StoreDriver, infra.DriverPostgres)
		}
		direction := "up"
		if len(args) == 1 {
			direction = args[0]
		}

		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("migrate: open database: %w", err)
		}
		defer db.Close()

		goose.SetBaseFS(migrations.FS)
		goose.SetLogger(gooseLogger{logger})
		if err := goose.SetDialect("postgres"); err != nil {
			return err
		}

		ctx := cmd.Context()
		switch direction {
		case "up":
			return goose.UpContext(ctx, db, ".")
		case "down":
			return goose.DownContext(ctx, db, ".")
		case "status":
			return goose.StatusContext(ctx, db, ".")
		default:
			return fmt.Errorf("migrate: unknown direction %q", direction)
		}
	},
}

// gooseLogger sends goose output through zerolog.
type gooseLogger struct {
	l zerolog.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Info().Str("component", "goose").Msgf(format, v...)
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Fatal().Str("component", "goose").Msgf(format, v...)
}
