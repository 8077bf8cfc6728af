package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/greenbase-cli/greenbase/core"
	"github.com/greenbase-cli/greenbase/internal/contract"
	"github.com/greenbase-cli/greenbase/internal/criteriafile"
	"github.com/greenbase-cli/greenbase/internal/outwriter"
)

// criteriaCmd groups the saved-criteria management commands.
var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Manage saved criteria groups",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// criteriaListCmd displays all saved criteria groups.
var criteriaListCmd = &cobra.Command{
	Use:     "list",
	Short:   "Display saved criteria groups",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		criteria, err := criteriafile.Load(cfg.CriteriaFile)
		if err != nil {
			contract.LogFatal("Could not load criteria file", err)
		}
		if err := outwriter.WriteCriteriaGroups(os.Stdout, criteria.SavedCriteria, cfg.Output); err != nil {
			contract.LogFatal("Could not write criteria", err)
		}
	},
}

// criteriaSaveCmd saves the criteria built from the current flags under a name.
var criteriaSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the specified criteria rule under a name for future use",
	Long: `Assemble a rule from the threshold, task and build-variant flags and store it
under the given name. Saving a rule whose build-variant scope overlaps an existing
rule of the same name fails unless --override is given, in which case the
overlapping rules are replaced.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		name := args[0]
		criteria, err := criteriafile.Load(cfg.CriteriaFile)
		if err != nil {
			contract.LogFatal("Could not load criteria file", err)
		}
		if err := core.AddCriteria(criteria, name, cfg.Rule, cfg.Override); err != nil {
			contract.LogFatal("Could not save "+name, err)
		}
		if err := criteriafile.Save(cfg.CriteriaFile, criteria); err != nil {
			contract.LogFatal("Could not save "+name, err)
		}
		fmt.Printf("Saved criteria %q\n", name)
	},
}

// criteriaExportCmd writes selected groups to a standalone file.
var criteriaExportCmd = &cobra.Command{
	Use:     "export <name>...",
	Short:   "Export saved criteria groups to a file",
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		destination := viper.GetString("export-file")
		if destination == "" {
			contract.LogFatal("Could not export", fmt.Errorf("export file needs to be specified with --export-file"))
		}

		criteria, err := criteriafile.Load(cfg.CriteriaFile)
		if err != nil {
			contract.LogFatal("Could not load criteria file", err)
		}
		exported := core.ExportCriteria(criteria, args)
		if err := criteriafile.Save(destination, exported); err != nil {
			contract.LogFatal("Could not export criteria", err)
		}
		fmt.Printf("Exported %d criteria group(s) to %s\n", len(exported.SavedCriteria), destination)
	},
}

// criteriaImportCmd merges groups from a previously exported file.
var criteriaImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import previously exported criteria groups",
	Long: `Merge every rule of every group in the given file into the saved criteria,
rule by rule, under the same conflict policy as 'criteria save'. Nothing is
written when any rule conflicts without --override.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		importFile := args[0]
		criteria, err := criteriafile.Load(cfg.CriteriaFile)
		if err != nil {
			contract.LogFatal("Could not load criteria file", err)
		}
		imported, err := criteriafile.Load(importFile)
		if err != nil {
			contract.LogFatal("Could not import from "+importFile, err)
		}
		if err := core.MergeCriteria(criteria, imported, cfg.Override); err != nil {
			contract.LogFatal("Could not import from "+importFile, err)
		}
		if err := criteriafile.Save(cfg.CriteriaFile, criteria); err != nil {
			contract.LogFatal("Could not import from "+importFile, err)
		}
		fmt.Printf("Imported criteria from %s\n", importFile)
	},
}

func init() {
	criteriaExportCmd.Flags().String("export-file", "", "File to write exported rules to")
	if err := viper.BindPFlag("export-file", criteriaExportCmd.Flags().Lookup("export-file")); err != nil {
		contract.LogFatal("Failed to bind flags", err)
	}
}
