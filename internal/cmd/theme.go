package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/factlens/factlens/internal/core/prefs"
)

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark|system]",
	Short: "Get or set the display theme preference",
	Long: `Get or set the display theme preference.

Without an argument the current preference and the resolved theme are
printed. Setting "system" clears the explicit choice and defers to the
host's color scheme.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		manager, err := prefs.NewManager(cmd.Context(), prefs.StoreEnvironment{Store: db}, db)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			fmt.Printf("preference: %s\neffective: %s\n", manager.Preference(), manager.Effective())
			return nil
		}

		theme, err := prefs.ParseTheme(args[0])
		if err != nil {
			return err
		}
		if err := manager.Set(cmd.Context(), theme); err != nil {
			return err
		}

		fmt.Printf("theme set to %s (effective: %s)\n", manager.Preference(), manager.Effective())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
