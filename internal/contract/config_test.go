package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenbase-cli/greenbase/schema"
)

// validInput returns raw input equivalent to running with only defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Project:        "my-project",
		CommitLookback: DefaultMaxLookback,
		GitOperation:   string(schema.CheckoutAction),
		Output:         string(schema.TextOut),
		HistoryBackend: string(schema.SQLiteBackend),
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, "my-project", cfg.Project)
	assert.Equal(t, DefaultMaxLookback, cfg.MaxLookback)
	assert.Equal(t, schema.CheckoutAction, cfg.Operation)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, time.Duration(0), cfg.Timeout)

	// No criteria given: the default success threshold on required variants.
	assert.Equal(t, []string{DefaultVariantPattern}, cfg.Rule.VariantPatterns)
	require.NotNil(t, cfg.Rule.SuccessThreshold)
	assert.Equal(t, DefaultSuccessThreshold, *cfg.Rule.SuccessThreshold)
	assert.Nil(t, cfg.Rule.RunThreshold)
}

func TestProcessAndValidateExplicitCriteria(t *testing.T) {
	input := validInput()
	input.BuildVariants = []string{"^enterprise-rhel-80", "^enterprise-windows"}
	input.RunTasks = []string{"replica_sets"}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	// An explicit condition suppresses the default threshold.
	assert.Nil(t, cfg.Rule.SuccessThreshold)
	assert.Equal(t, []string{"replica_sets"}, cfg.Rule.RunTasks)
	assert.Equal(t, input.BuildVariants, cfg.Rule.VariantPatterns)
}

func TestProcessAndValidateZeroThresholdIsLegal(t *testing.T) {
	input := validInput()
	input.PassThreshold = 0
	input.PassThresholdSet = true

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	require.NotNil(t, cfg.Rule.SuccessThreshold)
	assert.Equal(t, 0.0, *cfg.Rule.SuccessThreshold)
}

func TestProcessAndValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"zero lookback", func(i *ConfigRawInput) { i.CommitLookback = 0 }},
		{"negative lookback", func(i *ConfigRawInput) { i.CommitLookback = -1 }},
		{"negative timeout", func(i *ConfigRawInput) { i.TimeoutSecs = -5 }},
		{"unknown git operation", func(i *ConfigRawInput) { i.GitOperation = "push" }},
		{"branch action without branch", func(i *ConfigRawInput) { i.GitOperation = string(schema.BranchAction) }},
		{"unknown output mode", func(i *ConfigRawInput) { i.Output = "xml" }},
		{"unknown history backend", func(i *ConfigRawInput) { i.HistoryBackend = "redis" }},
		{"threshold above one", func(i *ConfigRawInput) { i.PassThreshold = 1.5; i.PassThresholdSet = true }},
		{"negative threshold", func(i *ConfigRawInput) { i.RunThreshold = -0.1; i.RunThresholdSet = true }},
		{"bad variant pattern", func(i *ConfigRawInput) { i.BuildVariants = []string{"[invalid"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

func TestProcessAndValidateBranchAction(t *testing.T) {
	input := validInput()
	input.GitOperation = string(schema.BranchAction)
	input.Branch = "fresh-base"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.BranchAction, cfg.Operation)
	assert.Equal(t, "fresh-base", cfg.BranchName)
}
