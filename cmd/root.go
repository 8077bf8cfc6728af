package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenbase-cli/greenbase/internal/ciapi"
	"github.com/greenbase-cli/greenbase/internal/contract"
	"github.com/greenbase-cli/greenbase/internal/criteriafile"
	"github.com/greenbase-cli/greenbase/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "greenbase",
	Short:              "Find and check out the newest revision whose CI results meet your quality bar.",
	Long: `Greenbase searches a CI project's version history for the most recent revision
whose build results satisfy configurable criteria, then checks that revision (and any
dependent repositories pinned by CI) out locally. Start new work from a base commit
without pre-existing CI failures.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".greenbase") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")     // Look in the current directory
		viper.AddConfigPath("$HOME") // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("GREENBASE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Set defaults in Viper
	viper.SetDefault("project", contract.DefaultProject)
	viper.SetDefault("commit-lookback", contract.DefaultMaxLookback)
	viper.SetDefault("git-operation", string(schema.CheckoutAction))
	viper.SetDefault("output", string(schema.TextOut))
	viper.SetDefault("ci-config-file", ciapi.DefaultAuthPath())
	viper.SetDefault("criteria-file", criteriafile.DefaultPath())
	viper.SetDefault("history-backend", string(schema.SQLiteBackend))
	viper.SetDefault("history-db-connect", "")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(cmd *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.Project = args[0]
	}

	// 4. A zero threshold is legal, so record whether the user set one at all.
	input.PassThresholdSet = thresholdProvided(cmd, "pass-threshold")
	input.RunThresholdSet = thresholdProvided(cmd, "run-threshold")

	// 5. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	contract.ConfigureLogging(cfg.Verbose)
	return nil
}

// thresholdProvided reports whether the user supplied the threshold through
// any configuration source: flag, config file, or environment. The value
// itself cannot be consulted since zero is a legal threshold.
func thresholdProvided(cmd *cobra.Command, key string) bool {
	if cmd.Flags().Changed(key) || viper.InConfig(key) {
		return true
	}
	envKey := "GREENBASE_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
	_, ok := os.LookupEnv(envKey)
	return ok
}

// newCIClient builds the REST CI client from the configured credentials file.
func newCIClient() (contract.CIClient, error) {
	auth, err := ciapi.LoadAuthConfig(cfg.CIConfigFile)
	if err != nil {
		return nil, err
	}
	return ciapi.NewRESTClient(auth), nil
}

// requireProject fails when no project was given by flag, config or argument.
func requireProject() error {
	if cfg.Project == "" {
		return fmt.Errorf("no CI project specified; pass one as an argument or set --project")
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
