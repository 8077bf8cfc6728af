package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	log "github.com/charmbracelet/log"

	"github.com/greenbase-cli/greenbase/core"
	"github.com/greenbase-cli/greenbase/internal/contract"
	"github.com/greenbase-cli/greenbase/internal/criteriafile"
	"github.com/greenbase-cli/greenbase/internal/gitrun"
	"github.com/greenbase-cli/greenbase/internal/histstore"
	"github.com/greenbase-cli/greenbase/internal/outwriter"
	"github.com/greenbase-cli/greenbase/schema"
)

// checkoutCmd finds a qualifying revision and applies the git operation.
var checkoutCmd = &cobra.Command{
	Use:   "checkout [project]",
	Short: "Find the newest revision matching the criteria and check it out",
	Long: `Search the project's CI history for the most recent revision whose build results
satisfy the specified criteria, then apply the configured git operation to the primary
repository and to every dependent repository with a local working copy.

Criteria

There are 4 criteria that can be specified:

* The fraction of tasks that have passed in each build.
* The fraction of tasks that have run in each build.
* Specific tasks that must have passed in each build (if they are part of that build).
* Specific tasks that must have run in each build (if they are part of that build).

If no criteria are specified, a success threshold of 0.95 is used. By default, only
builds whose display name ends in 'required' are checked.

Dependent repositories with local checkouts at the locations recorded in the project's
CI configuration are automatically moved to the revision CI pinned for the found commit.

Examples

  # Ensure the replica_sets task ran on two build variants
  greenbase checkout my-project --run-task replica_sets \
    --build-variant '^enterprise-rhel-80' --build-variant '^enterprise-windows'

  # Start new work from a broadly green base
  greenbase checkout my-project --pass-threshold 0.98

  # Create a branch at the found revision
  greenbase checkout my-project --git-operation branch -b fresh-base`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := requireProject(); err != nil {
			contract.LogFatal("Invalid arguments", err)
		}
		runCheckout()
	},
}

// findCmd searches without touching the working tree.
var findCmd = &cobra.Command{
	Use:   "find [project]",
	Short: "Find the newest revision matching the criteria without checking it out",
	Long: `Search the project's CI history exactly like 'checkout', but stop after the search:
print the matched revision and the dependent-repository revisions CI recorded for it,
leaving every working tree untouched.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := requireProject(); err != nil {
			contract.LogFatal("Invalid arguments", err)
		}
		runFind()
	},
}

// resolveRules returns the rules to enforce: a saved group when
// --use-criteria is given, the ad-hoc rule from flags otherwise. The second
// return value names the criteria for history records.
func resolveRules() ([]schema.CheckRule, string) {
	name := viper.GetString("use-criteria")
	if name == "" {
		return []schema.CheckRule{cfg.Rule}, "ad-hoc"
	}

	criteria, err := criteriafile.Load(cfg.CriteriaFile)
	if err != nil {
		contract.LogFatal("Could not load criteria file", err)
	}
	group, err := core.GetCriteriaGroup(criteria, name)
	if err != nil {
		contract.LogFatal("Could not use criteria "+name, err)
	}
	return group.Rules, name
}

// searchLimits assembles the configured search bounds.
func searchLimits() core.SearchLimits {
	return core.SearchLimits{
		MaxLookback: cfg.MaxLookback,
		CommitLimit: cfg.CommitLimit,
		Timeout:     cfg.Timeout,
	}
}

// recordRun appends the run to the history store, best-effort.
func recordRun(criteriaName string, outcome *core.SearchOutcome, runOutcome schema.RunOutcome) {
	store, err := histstore.New(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err != nil {
		log.Warn("Could not open history store", "err", err)
		return
	}
	defer func() { _ = store.Close() }()

	run := schema.SearchRun{
		Project:   cfg.Project,
		Criteria:  criteriaName,
		Outcome:   runOutcome,
		CreatedAt: time.Now(),
	}
	if outcome != nil {
		run.Revision = outcome.Revision
		run.Scanned = outcome.Scanned
		run.Duration = outcome.Elapsed
	}
	if err := store.RecordRun(run); err != nil {
		log.Warn("Could not record run history", "err", err)
	}
}

// reportNotFound writes the exhaustion report and exits non-zero. JSON mode
// emits a document on stdout so machine consumers still get one.
func reportNotFound(scanned int) {
	if cfg.Output == schema.JSONOut {
		_ = outwriter.WriteNotFound(os.Stdout, scanned, cfg.Output)
	} else {
		_ = outwriter.WriteNotFound(os.Stderr, scanned, cfg.Output)
	}
	os.Exit(1)
}

// runCheckout performs the full search-and-checkout flow.
func runCheckout() {
	ci, err := newCIClient()
	if err != nil {
		contract.LogFatal("Could not create CI client", err)
	}
	rules, criteriaName := resolveRules()

	searcher := core.NewSearcher(ci, searchLimits())
	orch := core.NewOrchestrator(ci, gitrun.NewLocalGitRunner(), searcher, core.CheckoutOptions{
		Operation:  cfg.Operation,
		BranchName: cfg.BranchName,
	})

	info, outcome, err := orch.CheckoutBase(rootCtx, cfg.Project, rules)
	if err != nil {
		recordRun(criteriaName, outcome, schema.ErrorOutcome)
		contract.LogFatal("Checkout failed", err)
	}
	if info == nil {
		recordRun(criteriaName, outcome, schema.NotFoundOutcome)
		reportNotFound(outcome.Scanned)
	}

	recordRun(criteriaName, outcome, schema.FoundOutcome)
	if err := outwriter.WriteRevisionInfo(os.Stdout, info, cfg.Output); err != nil {
		contract.LogFatal("Could not write result", err)
	}
}

// runFind performs the search-only flow.
func runFind() {
	ci, err := newCIClient()
	if err != nil {
		contract.LogFatal("Could not create CI client", err)
	}
	rules, criteriaName := resolveRules()

	searcher := core.NewSearcher(ci, searchLimits())
	outcome, err := searcher.FindRevision(rootCtx, cfg.Project, rules)
	if err != nil {
		recordRun(criteriaName, nil, schema.ErrorOutcome)
		contract.LogFatal("Search failed", err)
	}
	if !outcome.Found() {
		recordRun(criteriaName, outcome, schema.NotFoundOutcome)
		reportNotFound(outcome.Scanned)
	}

	depRevisions, err := ci.DepRepoRevisions(rootCtx, cfg.Project, outcome.Revision)
	if err != nil {
		recordRun(criteriaName, outcome, schema.ErrorOutcome)
		contract.LogFatal("Could not resolve dependent repo revisions", err)
	}

	recordRun(criteriaName, outcome, schema.FoundOutcome)
	info := &schema.RevisionInfo{Revision: outcome.Revision, DepRevisions: depRevisions}
	if err := outwriter.WriteRevisionInfo(os.Stdout, info, cfg.Output); err != nil {
		contract.LogFatal("Could not write result", err)
	}
}
