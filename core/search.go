package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/charmbracelet/log"

	"github.com/greenbase-cli/greenbase/internal/contract"
	"github.com/greenbase-cli/greenbase/schema"
)

// SearchLimits bounds a revision search. Zero CommitLimit and Timeout mean
// the corresponding limit is disabled; MaxLookback is always enforced.
type SearchLimits struct {
	MaxLookback int
	CommitLimit string // oldest-commit prefix, inclusive stop
	Timeout     time.Duration
}

// Hit reports whether any lookback limit stops the search at the given
// zero-based version index. Checks run in fixed order: lookback, commit
// limit, timeout. Callers only observe the stop; the firing limit is logged
// for diagnostics.
func (l *SearchLimits) Hit(index int, revision string, elapsed time.Duration) bool {
	if index > l.MaxLookback {
		log.Debug("Max lookback hit", "max_lookback", l.MaxLookback, "commit_idx", index)
		return true
	}
	if l.CommitLimit != "" && strings.HasPrefix(revision, l.CommitLimit) {
		log.Debug("Commit limit hit", "commit_limit", l.CommitLimit)
		return true
	}
	if l.Timeout > 0 && elapsed > l.Timeout {
		log.Debug("Timeout hit", "timeout", l.Timeout, "elapsed", elapsed)
		return true
	}
	return false
}

// SearchOutcome describes how a revision search ended. An empty Revision
// means the search exhausted its limits without a match, which is not an
// error.
type SearchOutcome struct {
	Revision string
	Scanned  int
	Elapsed  time.Duration
}

// Found reports whether the search matched a revision.
func (o *SearchOutcome) Found() bool {
	return o.Revision != ""
}

// Searcher walks a project's version history newest-first looking for the
// first version that satisfies the criteria. Dependencies are injected at
// construction.
type Searcher struct {
	ci     contract.CIClient
	limits SearchLimits
}

// NewSearcher creates a Searcher over the given CI client and limits.
func NewSearcher(ci contract.CIClient, limits SearchLimits) *Searcher {
	return &Searcher{ci: ci, limits: limits}
}

// FindRevision returns the first (newest) revision of project whose version
// satisfies every rule. Limits are checked before each evaluation; the first
// limit to trigger stops the search. A CI fetch error is fatal and is
// returned as-is, never masked or retried.
func (s *Searcher) FindRevision(ctx context.Context, project string, rules []schema.CheckRule) (*SearchOutcome, error) {
	start := time.Now()
	it := s.ci.Versions(ctx, project)

	idx := 0
	for ; it.Next(ctx); idx++ {
		version := it.Version()
		if s.limits.Hit(idx, version.Revision, time.Since(start)) {
			return &SearchOutcome{Scanned: idx, Elapsed: time.Since(start)}, nil
		}

		log.Debug("Checking version", "commit", version.Revision)
		if RulesSatisfied(version, rules) {
			return &SearchOutcome{
				Revision: version.Revision,
				Scanned:  idx + 1,
				Elapsed:  time.Since(start),
			}, nil
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("listing versions for project %q: %w", project, err)
	}
	return &SearchOutcome{Scanned: idx, Elapsed: time.Since(start)}, nil
}
