package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/charmbracelet/log"

	"github.com/greenbase-cli/greenbase/internal/contract"
	"github.com/greenbase-cli/greenbase/schema"
)

// CheckoutOptions selects the git action applied to a found revision.
type CheckoutOptions struct {
	Operation  schema.GitAction
	BranchName string
}

// Orchestrator finds a qualifying revision and applies a git action to the
// primary repository and every dependent repository with a local working
// copy. Per-repository failures are collected, never fatal to siblings.
type Orchestrator struct {
	ci       contract.CIClient
	git      contract.GitRunner
	searcher *Searcher
	opts     CheckoutOptions
}

// NewOrchestrator creates an Orchestrator with its collaborators injected.
func NewOrchestrator(ci contract.CIClient, git contract.GitRunner, searcher *Searcher, opts CheckoutOptions) *Orchestrator {
	return &Orchestrator{ci: ci, git: git, searcher: searcher, opts: opts}
}

// CheckoutBase searches project for the newest revision satisfying rules and
// checks it out along with its dependent repositories. The returned
// RevisionInfo is nil when no revision was found; the SearchOutcome is always
// populated unless an error occurred.
func (o *Orchestrator) CheckoutBase(ctx context.Context, project string, rules []schema.CheckRule) (*schema.RevisionInfo, *SearchOutcome, error) {
	outcome, err := o.searcher.FindRevision(ctx, project, rules)
	if err != nil {
		return nil, nil, err
	}
	if !outcome.Found() {
		return nil, outcome, nil
	}

	info, err := o.CheckoutRevision(ctx, project, outcome.Revision)
	if err != nil {
		return nil, outcome, err
	}
	return info, outcome, nil
}

// CheckoutRevision applies the configured git action to the primary working
// tree at revision and to every dependent repository present on disk at the
// revision CI recorded for it. Every failed repository contributes one entry
// to the returned error map; the primary repository uses PrimaryRepoKey.
func (o *Orchestrator) CheckoutRevision(ctx context.Context, project, revision string) (*schema.RevisionInfo, error) {
	depRevisions, err := o.ci.DepRepoRevisions(ctx, project, revision)
	if err != nil {
		return nil, fmt.Errorf("resolving dependent repo revisions for %q: %w", revision, err)
	}

	errs := make(map[string]string)
	if msg := o.attemptGitOperation(ctx, revision, ""); msg != "" {
		errs[schema.PrimaryRepoKey] = msg
	}

	depErrs, err := o.checkoutDepRepos(ctx, project, depRevisions)
	if err != nil {
		return nil, err
	}
	for name, msg := range depErrs {
		errs[name] = msg
	}

	return &schema.RevisionInfo{
		Revision:     revision,
		DepRevisions: depRevisions,
		Errors:       errs,
	}, nil
}

// checkoutDepRepos applies the git action to each dependent repository with a
// local working copy, concurrently. Repositories without a local checkout are
// skipped, not reported. The error map is guarded against concurrent writes.
func (o *Orchestrator) checkoutDepRepos(ctx context.Context, project string, depRevisions map[string]string) (map[string]string, error) {
	locations, err := o.ci.DepRepoLocations(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("resolving dependent repo locations for project %q: %w", project, err)
	}
	log.Debug("Checking out dependent repos", "locations", locations, "revisions", depRevisions)

	var wg sync.WaitGroup
	var mu sync.Mutex
	errs := make(map[string]string)

	for name, rev := range depRevisions {
		dir := filepath.Join(locations[name], name)
		if _, statErr := os.Stat(dir); statErr != nil {
			log.Debug("Skipping dependent repo without local copy", "repo", name, "dir", dir)
			continue
		}

		wg.Add(1)
		go func(name, rev, dir string) {
			defer wg.Done()
			if msg := o.attemptGitOperation(ctx, rev, dir); msg != "" {
				mu.Lock()
				errs[name] = msg
				mu.Unlock()
			}
		}(name, rev, dir)
	}
	wg.Wait()

	return errs, nil
}

// attemptGitOperation performs the configured action and converts a failure
// into an error message for the aggregation map. An empty string means the
// action succeeded.
func (o *Orchestrator) attemptGitOperation(ctx context.Context, revision, dir string) string {
	if err := o.git.Perform(ctx, o.opts.Operation, revision, dir, o.opts.BranchName); err != nil {
		log.Warn("Error encountered during git operation",
			"operation", o.opts.Operation, "revision", revision, "dir", dir, "err", err)
		return fmt.Sprintf("encountered error performing %q on %q", o.opts.Operation, revision)
	}
	return ""
}
