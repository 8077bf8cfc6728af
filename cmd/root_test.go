package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbase-cli/greenbase/internal/contract"
)

// setupEnv isolates the test from any real config file in $HOME or the
// working directory.
func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	initConfig()
}

func TestSharedSetupThresholdsFromEnv(t *testing.T) {
	setupEnv(t)
	t.Setenv("GREENBASE_PASS_THRESHOLD", "0.8")
	t.Setenv("GREENBASE_RUN_THRESHOLD", "0.7")

	require.NoError(t, sharedSetup(checkoutCmd, []string{"my-project"}))

	require.NotNil(t, cfg.Rule.SuccessThreshold)
	assert.Equal(t, 0.8, *cfg.Rule.SuccessThreshold)
	require.NotNil(t, cfg.Rule.RunThreshold)
	assert.Equal(t, 0.7, *cfg.Rule.RunThreshold)
}

func TestSharedSetupZeroThresholdFromEnv(t *testing.T) {
	setupEnv(t)
	t.Setenv("GREENBASE_PASS_THRESHOLD", "0")

	require.NoError(t, sharedSetup(checkoutCmd, []string{"my-project"}))

	require.NotNil(t, cfg.Rule.SuccessThreshold)
	assert.Equal(t, 0.0, *cfg.Rule.SuccessThreshold)
}

func TestSharedSetupDefaultThresholdWithoutSources(t *testing.T) {
	setupEnv(t)

	require.NoError(t, sharedSetup(checkoutCmd, []string{"my-project"}))

	assert.Equal(t, "my-project", cfg.Project)
	require.NotNil(t, cfg.Rule.SuccessThreshold)
	assert.Equal(t, contract.DefaultSuccessThreshold, *cfg.Rule.SuccessThreshold)
	assert.Nil(t, cfg.Rule.RunThreshold)
}
