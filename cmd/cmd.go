// Package cmd defines the command-line interface for greenbase.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenbase-cli/greenbase/internal/ciapi"
	"github.com/greenbase-cli/greenbase/internal/contract"
	"github.com/greenbase-cli/greenbase/internal/criteriafile"
	"github.com/greenbase-cli/greenbase/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(criteriaCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the criteria subcommands to the parent criteria command
	criteriaCmd.AddCommand(criteriaListCmd)
	criteriaCmd.AddCommand(criteriaSaveCmd)
	criteriaCmd.AddCommand(criteriaExportCmd)
	criteriaCmd.AddCommand(criteriaImportCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyRecentCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().StringP("project", "p", contract.DefaultProject, "CI project to query against")
	rootCmd.PersistentFlags().StringArray("passing-task", nil, "Task that needs to be passing (can be specified multiple times)")
	rootCmd.PersistentFlags().StringArray("run-task", nil, "Task that needs to be run (can be specified multiple times)")
	rootCmd.PersistentFlags().Float64("pass-threshold", 0, "Fraction of tasks that need to be successful")
	rootCmd.PersistentFlags().Float64("run-threshold", 0, "Fraction of tasks that need to be run")
	rootCmd.PersistentFlags().StringArray("build-variant", nil, "Regex of build variants to check (can be specified multiple times)")
	rootCmd.PersistentFlags().Int("commit-lookback", contract.DefaultMaxLookback, "Number of commits to check before giving up")
	rootCmd.PersistentFlags().String("commit-limit", "", "Oldest commit to check before giving up")
	rootCmd.PersistentFlags().Int("timeout-secs", 0, "Number of seconds to search before giving up")
	rootCmd.PersistentFlags().String("git-operation", string(schema.CheckoutAction), "Git operation to perform with the found commit: checkout, branch, merge, rebase, or cherry-pick")
	rootCmd.PersistentFlags().StringP("branch", "b", "", "Name of branch to create on checkout")
	rootCmd.PersistentFlags().Bool("override", false, "Override conflicting saved criteria rules")
	rootCmd.PersistentFlags().String("use-criteria", "", "Use previously saved criteria rules")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or json")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("ci-config-file", ciapi.DefaultAuthPath(), "File containing CI server authentication information")
	rootCmd.PersistentFlags().String("criteria-file", criteriafile.DefaultPath(), "File containing saved criteria groups")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "Run history backend: sqlite, mysql, postgresql, or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Run history database connection string")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Failed to bind flags", err)
	}
}
