package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenbase-cli/greenbase/internal/contract"
	"github.com/greenbase-cli/greenbase/internal/histstore"
	"github.com/greenbase-cli/greenbase/internal/outwriter"
)

// historyCmd groups the run-history commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded search runs",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// historyStatusCmd summarizes the history store.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show the history backend and recorded run count",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := histstore.New(cfg.HistoryBackend, cfg.HistoryDBConnect)
		if err != nil {
			contract.LogFatal("Could not open history store", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.Status()
		if err != nil {
			contract.LogFatal("Could not read history status", err)
		}
		if err := outwriter.WriteHistoryStatus(os.Stdout, status, cfg.Output); err != nil {
			contract.LogFatal("Could not write history status", err)
		}
	},
}

// historyRecentCmd lists the most recent recorded runs.
var historyRecentCmd = &cobra.Command{
	Use:     "recent",
	Short:   "List the most recent recorded runs",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := histstore.New(cfg.HistoryBackend, cfg.HistoryDBConnect)
		if err != nil {
			contract.LogFatal("Could not open history store", err)
		}
		defer func() { _ = store.Close() }()

		runs, err := store.Recent(viper.GetInt("limit"))
		if err != nil {
			contract.LogFatal("Could not read run history", err)
		}
		if err := outwriter.WriteHistoryRuns(os.Stdout, runs, cfg.Output); err != nil {
			contract.LogFatal("Could not write run history", err)
		}
	},
}

// historyMigrateCmd runs history schema migrations.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Migrate the history database schema",
	Long: `Apply history schema migrations. Without an argument the schema is migrated
to the latest version. With a version argument the schema is migrated up or down
to that version; version 0 rolls back all migrations.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		target := -1
		if len(args) == 1 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil || parsed < 0 {
				contract.LogFatal("Invalid arguments", fmt.Errorf("migration version must be a non-negative integer, got %q", args[0]))
			}
			target = parsed
		}

		if err := histstore.Migrate(cfg.HistoryBackend, cfg.HistoryDBConnect, target); err != nil {
			contract.LogFatal("Migration failed", err)
		}
		fmt.Println("Migration complete")
	},
}

func init() {
	historyRecentCmd.Flags().Int("limit", 10, "Maximum number of runs to list")
	if err := viper.BindPFlag("limit", historyRecentCmd.Flags().Lookup("limit")); err != nil {
		contract.LogFatal("Failed to bind flags", err)
	}
}
