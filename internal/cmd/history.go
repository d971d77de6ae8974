package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/factlens/factlens/internal/core"
	"github.com/factlens/factlens/internal/output"
)

var (
	historyFilter string
	historyOutput string
	historyYes    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse stored verification results",
	Long: `Browse, inspect, and prune stored verification results.

History is ordered most recent first. The list filter matches a
case-insensitive substring of the verified content.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored results",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(historyOutput)
		if err != nil {
			return err
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		results, err := db.ListHistory(cmd.Context(), historyFilter)
		if err != nil {
			return err
		}

		rendered, err := output.NewFormatter(format).FormatHistory(results)
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single stored result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(historyOutput)
		if err != nil {
			return err
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		result, state, err := db.GetResult(cmd.Context(), strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		switch state {
		case core.StateReady:
			rendered, err := output.NewFormatter(format).FormatResult(result)
			if err != nil {
				return err
			}
			fmt.Println(rendered)
			return nil
		case core.StatePending:
			fmt.Println("verification is still pending")
			return nil
		default:
			return fmt.Errorf("no verification exists for id %s", args[0])
		}
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored result",
	Long:  "Delete a stored result. Deleting an id that does not exist is not an error.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := db.DeleteResult(cmd.Context(), strings.TrimSpace(args[0])); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored results",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !historyYes {
			return fmt.Errorf("clearing history is destructive; re-run with --yes to confirm")
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		removed, err := db.ClearHistory(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("removed %d results\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyCmd.PersistentFlags().StringVarP(&historyOutput, "output", "o", "table", "output format: table, json, markdown")
	historyListCmd.Flags().StringVar(&historyFilter, "filter", "", "case-insensitive content substring filter")
	historyClearCmd.Flags().BoolVar(&historyYes, "yes", false, "confirm deleting all history")
}
