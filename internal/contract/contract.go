// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/greenbase-cli/greenbase/schema"
)

// VersionIterator is a pull-based, newest-first sequence of CI versions.
// It is finite only once the caller stops pulling and is not restartable
// mid-scan; obtain a fresh iterator from CIClient.Versions to rescan.
type VersionIterator interface {
	// Next advances to the next version, fetching more pages as needed.
	// It returns false when the history is exhausted or an error occurred.
	Next(ctx context.Context) bool

	// Version returns the current version. Only valid after Next returns true.
	Version() *schema.Version

	// Err returns the first error encountered while fetching, if any.
	Err() error
}

// CIClient defines the operations consumed from the CI server.
// This allows the search and checkout logic to be tested without a live API.
type CIClient interface {
	// Versions returns a newest-first iterator over the project's version history.
	Versions(ctx context.Context, project string) VersionIterator

	// DepRepoLocations returns the local path configured for each dependent
	// repository of the project, keyed by repository name.
	DepRepoLocations(ctx context.Context, project string) (map[string]string, error)

	// DepRepoRevisions returns the revision each dependent repository ran at
	// in CI for the given primary revision, keyed by repository name.
	DepRepoRevisions(ctx context.Context, project string, revision string) (map[string]string, error)
}

// GitRunner executes a version-control action against a working tree.
// Failure is reported as an explicit error value consumed by the checkout
// orchestrator's aggregation step.
type GitRunner interface {
	// Perform applies the action at the given revision. An empty dir means the
	// primary working tree (the current directory). branch is only used by
	// actions that create a branch.
	Perform(ctx context.Context, action schema.GitAction, revision, dir, branch string) error
}

// HistoryStore records completed search runs for later inspection.
type HistoryStore interface {
	// RecordRun appends one run to the store.
	RecordRun(run schema.SearchRun) error

	// Recent returns up to limit runs, newest first.
	Recent(limit int) ([]schema.SearchRun, error)

	// Status returns status information about the store.
	Status() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}
