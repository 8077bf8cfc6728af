// Package schema has configs, models and shared constants for all parts of greenbase.
package schema

import "time"

// Custom string types for type safety.
type (
	// GitAction represents the git operation applied to a found revision.
	GitAction string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// RunOutcome represents how a search run ended.
	RunOutcome string
)

// All git actions supported.
const (
	CheckoutAction   GitAction = "checkout" // default
	BranchAction     GitAction = "branch"
	MergeAction      GitAction = "merge"
	RebaseAction     GitAction = "rebase"
	CherryPickAction GitAction = "cherry-pick"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All run outcomes recorded in history.
const (
	FoundOutcome    RunOutcome = "found"
	NotFoundOutcome RunOutcome = "not-found"
	ErrorOutcome    RunOutcome = "error"
)

// GitActionValues lists the accepted --git-operation values.
func GitActionValues() []GitAction {
	return []GitAction{CheckoutAction, BranchAction, MergeAction, RebaseAction, CherryPickAction}
}

// IsValid reports whether the action is one of the supported git operations.
func (a GitAction) IsValid() bool {
	for _, v := range GitActionValues() {
		if a == v {
			return true
		}
	}
	return false
}

// IsValid reports whether the backend is one of the supported history backends.
func (b DatabaseBackend) IsValid() bool {
	switch b {
	case SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend:
		return true
	}
	return false
}

// SearchRun is one recorded run of the revision search, written to the
// history store after the search completes.
type SearchRun struct {
	ID        string        `json:"id"`
	Project   string        `json:"project"`
	Criteria  string        `json:"criteria"` // saved criteria name, or "ad-hoc"
	Revision  string        `json:"revision"` // empty unless a revision was found
	Scanned   int           `json:"scanned"`  // versions consumed before stopping
	Outcome   RunOutcome    `json:"outcome"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// HistoryStatus summarizes the state of the history store.
type HistoryStatus struct {
	Backend   string    `json:"backend"`
	Connected bool      `json:"connected"`
	TotalRuns int       `json:"total_runs"`
	LastRun   time.Time `json:"last_run,omitempty"`
}
