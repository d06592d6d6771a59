package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rescue/internal/cases"
	"rescue/internal/storage"
)

var (
	sweepDryRun      bool
	sweepMinAge      time.Duration
	sweepConcurrency int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete case images that no case references",
	Long: `Scan STORAGE_PATH for case images and delete the ones no case points at.

Images younger than --min-age are kept so uploads that are still being
reported are not removed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		blobs, err := storage.NewFileStore(cfg.StoragePath, cfg.StorageBaseURL)
		if err != nil {
			return err
		}

		res, err := cases.Sweep(cmd.Context(), store, blobs, cases.SweepOptions{
			DryRun:      sweepDryRun,
			MinAge:      sweepMinAge,
			Concurrency: sweepConcurrency,
		}, logger)
		out := cmd.OutOrStdout()
		for _, id := range res.Unmapped {
			fmt.Fprintf(out, "unmapped image url on case %s\n", id)
		}
		if err != nil {
			return err
		}
		for _, key := range res.Orphans {
			fmt.Fprintln(out, key)
		}
		fmt.Fprintf(out, "scanned=%d referenced=%d orphans=%d deleted=%d\n", res.Scanned, res.Referenced, len(res.Orphans), res.Deleted)
		return nil
	},
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepDryRun, "dry-run", false, "list orphans without deleting them")
	sweepCmd.Flags().DurationVar(&sweepMinAge, "min-age", time.Hour, "keep images uploaded more recently than this")
	sweepCmd.Flags().IntVar(&sweepConcurrency, "concurrency", 8, "parallel deletes")
}
