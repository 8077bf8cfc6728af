// Package gitrun executes version-control actions using the local git binary.
package gitrun

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	log "github.com/charmbracelet/log"

	"github.com/greenbase-cli/greenbase/internal/contract"
	"github.com/greenbase-cli/greenbase/schema"
)

// LocalGitRunner implements the GitRunner interface by executing the local
// 'git' binary installed on the machine.
type LocalGitRunner struct{}

var _ contract.GitRunner = &LocalGitRunner{} // Compile-time check

// NewLocalGitRunner creates a new instance of the local git runner.
func NewLocalGitRunner() *LocalGitRunner {
	return &LocalGitRunner{}
}

// Perform applies the action at the given revision. An empty dir targets the
// current working tree.
func (r *LocalGitRunner) Perform(ctx context.Context, action schema.GitAction, revision, dir, branch string) error {
	args, err := argsForAction(action, revision, branch)
	if err != nil {
		return err
	}
	if dir == "" {
		dir = "."
	}
	log.Debug("Running git", "dir", dir, "args", args)
	return r.run(ctx, dir, args...)
}

// run executes a git command, surfacing stderr on failure the way the git CLI
// reports it.
func (r *LocalGitRunner) run(ctx context.Context, repoPath string, args ...string) error {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	_, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return fmt.Errorf("git command failed in %q: %s", repoPath, stderr)
	} else if err != nil {
		return fmt.Errorf("git command failed: %w. Ensure git is installed and available on your PATH", err)
	}
	return nil
}

// argsForAction maps a GitAction to the git arguments implementing it.
func argsForAction(action schema.GitAction, revision, branch string) ([]string, error) {
	switch action {
	case schema.CheckoutAction:
		if branch != "" {
			return []string{"checkout", "-b", branch, revision}, nil
		}
		return []string{"checkout", revision}, nil
	case schema.BranchAction:
		if branch == "" {
			return nil, fmt.Errorf("git operation %q requires a branch name", action)
		}
		return []string{"checkout", "-b", branch, revision}, nil
	case schema.MergeAction:
		return []string{"merge", revision}, nil
	case schema.RebaseAction:
		return []string{"rebase", revision}, nil
	case schema.CherryPickAction:
		return []string{"cherry-pick", revision}, nil
	default:
		return nil, fmt.Errorf("unsupported git operation %q", action)
	}
}
