package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbase-cli/greenbase/schema"
)

// fakeGitRunner records every performed operation and fails for the
// configured directories.
type fakeGitRunner struct {
	mu       sync.Mutex
	calls    []gitCall
	failDirs map[string]bool
}

type gitCall struct {
	action   schema.GitAction
	revision string
	dir      string
	branch   string
}

func (g *fakeGitRunner) Perform(_ context.Context, action schema.GitAction, revision, dir, branch string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gitCall{action: action, revision: revision, dir: dir, branch: branch})
	if g.failDirs[dir] {
		return errors.New("exit status 1")
	}
	return nil
}

func (g *fakeGitRunner) callFor(dir string) (gitCall, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, c := range g.calls {
		if c.dir == dir {
			return c, true
		}
	}
	return gitCall{}, false
}

func TestCheckoutRevisionHappyPath(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "enterprise"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(base, "tools"), 0o755))

	ci := &fakeCIClient{
		locations: map[string]string{"enterprise": base, "tools": base},
		revisions: map[string]string{"enterprise": "ent123", "tools": "tool456"},
	}
	git := &fakeGitRunner{}
	orch := NewOrchestrator(ci, git, nil, CheckoutOptions{Operation: schema.CheckoutAction})

	info, err := orch.CheckoutRevision(context.Background(), "proj", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", info.Revision)
	assert.Equal(t, map[string]string{"enterprise": "ent123", "tools": "tool456"}, info.DepRevisions)
	assert.Empty(t, info.Errors)

	primary, ok := git.callFor("")
	require.True(t, ok)
	assert.Equal(t, "abc", primary.revision)

	ent, ok := git.callFor(filepath.Join(base, "enterprise"))
	require.True(t, ok)
	assert.Equal(t, "ent123", ent.revision)
}

func TestCheckoutRevisionDepFailureIsolated(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "enterprise"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(base, "tools"), 0o755))

	ci := &fakeCIClient{
		locations: map[string]string{"enterprise": base, "tools": base},
		revisions: map[string]string{"enterprise": "ent123", "tools": "tool456"},
	}
	git := &fakeGitRunner{failDirs: map[string]bool{
		filepath.Join(base, "tools"): true,
	}}
	orch := NewOrchestrator(ci, git, nil, CheckoutOptions{Operation: schema.CheckoutAction})

	info, err := orch.CheckoutRevision(context.Background(), "proj", "abc")
	require.NoError(t, err)
	require.Len(t, info.Errors, 1)
	assert.Contains(t, info.Errors, "tools")
	assert.NotContains(t, info.Errors, "enterprise")
	assert.NotContains(t, info.Errors, schema.PrimaryRepoKey)

	// The failing sibling does not block the other repos.
	_, ok := git.callFor(filepath.Join(base, "enterprise"))
	assert.True(t, ok)
}

func TestCheckoutRevisionPrimaryFailureKeyed(t *testing.T) {
	ci := &fakeCIClient{
		locations: map[string]string{},
		revisions: map[string]string{},
	}
	git := &fakeGitRunner{failDirs: map[string]bool{"": true}}
	orch := NewOrchestrator(ci, git, nil, CheckoutOptions{Operation: schema.CheckoutAction})

	info, err := orch.CheckoutRevision(context.Background(), "proj", "abc")
	require.NoError(t, err)
	require.Len(t, info.Errors, 1)
	assert.Contains(t, info.Errors[schema.PrimaryRepoKey], "checkout")
	assert.Contains(t, info.Errors[schema.PrimaryRepoKey], "abc")
}

func TestCheckoutRevisionSkipsMissingLocalCopies(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "enterprise"), 0o755))

	ci := &fakeCIClient{
		locations: map[string]string{"enterprise": base, "tools": base},
		revisions: map[string]string{"enterprise": "ent123", "tools": "tool456"},
	}
	git := &fakeGitRunner{}
	orch := NewOrchestrator(ci, git, nil, CheckoutOptions{Operation: schema.CheckoutAction})

	info, err := orch.CheckoutRevision(context.Background(), "proj", "abc")
	require.NoError(t, err)
	assert.Empty(t, info.Errors)

	// tools has no working copy, so no git call targets it.
	_, ok := git.callFor(filepath.Join(base, "tools"))
	assert.False(t, ok)
}

func TestCheckoutRevisionDepResolutionError(t *testing.T) {
	ci := &fakeCIClient{revisionsErr: errors.New("server unavailable")}
	orch := NewOrchestrator(ci, &fakeGitRunner{}, nil, CheckoutOptions{Operation: schema.CheckoutAction})

	info, err := orch.CheckoutRevision(context.Background(), "proj", "abc")
	require.Error(t, err)
	assert.Nil(t, info)
}

func TestCheckoutBase(t *testing.T) {
	t.Run("found and checked out", func(t *testing.T) {
		ci := &fakeCIClient{
			versions:  []schema.Version{redVersion("aaa"), greenVersion("bbb")},
			locations: map[string]string{},
			revisions: map[string]string{},
		}
		git := &fakeGitRunner{}
		searcher := NewSearcher(ci, SearchLimits{MaxLookback: 50})
		orch := NewOrchestrator(ci, git, searcher, CheckoutOptions{Operation: schema.CheckoutAction})

		info, outcome, err := orch.CheckoutBase(context.Background(), "proj", strictRules())
		require.NoError(t, err)
		require.NotNil(t, info)
		assert.Equal(t, "bbb", info.Revision)
		assert.Equal(t, 2, outcome.Scanned)

		primary, ok := git.callFor("")
		require.True(t, ok)
		assert.Equal(t, schema.CheckoutAction, primary.action)
	})

	t.Run("not found leaves tree untouched", func(t *testing.T) {
		ci := &fakeCIClient{versions: []schema.Version{redVersion("aaa")}}
		git := &fakeGitRunner{}
		searcher := NewSearcher(ci, SearchLimits{MaxLookback: 50})
		orch := NewOrchestrator(ci, git, searcher, CheckoutOptions{Operation: schema.CheckoutAction})

		info, outcome, err := orch.CheckoutBase(context.Background(), "proj", strictRules())
		require.NoError(t, err)
		assert.Nil(t, info)
		assert.False(t, outcome.Found())
		assert.Empty(t, git.calls)
	})

	t.Run("branch options forwarded", func(t *testing.T) {
		ci := &fakeCIClient{
			versions:  []schema.Version{greenVersion("aaa")},
			locations: map[string]string{},
			revisions: map[string]string{},
		}
		git := &fakeGitRunner{}
		searcher := NewSearcher(ci, SearchLimits{MaxLookback: 50})
		orch := NewOrchestrator(ci, git, searcher, CheckoutOptions{
			Operation:  schema.BranchAction,
			BranchName: "fresh-base",
		})

		_, _, err := orch.CheckoutBase(context.Background(), "proj", strictRules())
		require.NoError(t, err)

		primary, ok := git.callFor("")
		require.True(t, ok)
		assert.Equal(t, schema.BranchAction, primary.action)
		assert.Equal(t, "fresh-base", primary.branch)
	})
}
