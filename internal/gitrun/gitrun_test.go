package gitrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbase-cli/greenbase/schema"
)

func TestArgsForAction(t *testing.T) {
	tests := []struct {
		name     string
		action   schema.GitAction
		revision string
		branch   string
		want     []string
		wantErr  bool
	}{
		{
			name:     "checkout",
			action:   schema.CheckoutAction,
			revision: "abc123",
			want:     []string{"checkout", "abc123"},
		},
		{
			name:     "checkout with branch",
			action:   schema.CheckoutAction,
			revision: "abc123",
			branch:   "fresh-base",
			want:     []string{"checkout", "-b", "fresh-base", "abc123"},
		},
		{
			name:     "branch",
			action:   schema.BranchAction,
			revision: "abc123",
			branch:   "fresh-base",
			want:     []string{"checkout", "-b", "fresh-base", "abc123"},
		},
		{
			name:     "branch without name",
			action:   schema.BranchAction,
			revision: "abc123",
			wantErr:  true,
		},
		{
			name:     "merge",
			action:   schema.MergeAction,
			revision: "abc123",
			want:     []string{"merge", "abc123"},
		},
		{
			name:     "rebase",
			action:   schema.RebaseAction,
			revision: "abc123",
			want:     []string{"rebase", "abc123"},
		},
		{
			name:     "cherry-pick",
			action:   schema.CherryPickAction,
			revision: "abc123",
			want:     []string{"cherry-pick", "abc123"},
		},
		{
			name:     "unknown action",
			action:   schema.GitAction("push"),
			revision: "abc123",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := argsForAction(tt.action, tt.revision, tt.branch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
