package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"rescue/internal/domain"
)

var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "Inspect rescue cases",
}

var casesJSON bool

var casesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		list, err := store.ListCases(cmd.Context())
		if err != nil {
			return err
		}
		if casesJSON {
			return writeJSON(cmd.OutOrStdout(), list)
		}
		return writeCaseTable(cmd.OutOrStdout(), list)
	},
}

var casesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one case with its recent donations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		c, err := store.GetCase(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		donations, err := store.ListDonations(cmd.Context(), c.ID, 20)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), map[string]any{"case": c, "donations": donations})
	},
}

func init() {
	casesListCmd.Flags().BoolVar(&casesJSON, "json", false, "print JSON instead of a table")
	casesCmd.AddCommand(casesListCmd, casesShowCmd)
}

func writeCaseTable(w io.Writer, list []domain.Case) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSEVERITY\tRAISED/GOAL\tTITLE")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d/%d\t%s\n", c.ID, c.CreatedAt.Format(time.RFC3339), c.Severity, c.Raised, c.Goal, c.Title)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
