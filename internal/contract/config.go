package contract

import (
	"fmt"
	"time"

	"github.com/greenbase-cli/greenbase/schema"
)

// Default values for configuration.
const (
	DefaultMaxLookback      = 50
	DefaultSuccessThreshold = 0.95
	DefaultProject          = ""
	DefaultVariantPattern   = ".*-required$"
)

// ConfigRawInput holds the raw, unvalidated configuration from all sources
// (file, env, flags). Viper unmarshals into this struct.
type ConfigRawInput struct {
	Project          string   `mapstructure:"project"`
	PassingTasks     []string `mapstructure:"passing-task"`
	RunTasks         []string `mapstructure:"run-task"`
	PassThreshold    float64  `mapstructure:"pass-threshold"`
	RunThreshold     float64  `mapstructure:"run-threshold"`
	BuildVariants    []string `mapstructure:"build-variant"`
	CommitLookback   int      `mapstructure:"commit-lookback"`
	CommitLimit      string   `mapstructure:"commit-limit"`
	TimeoutSecs      int      `mapstructure:"timeout-secs"`
	GitOperation     string   `mapstructure:"git-operation"`
	Branch           string   `mapstructure:"branch"`
	Override         bool     `mapstructure:"override"`
	Output           string   `mapstructure:"output"`
	Verbose          bool     `mapstructure:"verbose"`
	CIConfigFile     string   `mapstructure:"ci-config-file"`
	CriteriaFile     string   `mapstructure:"criteria-file"`
	HistoryBackend   string   `mapstructure:"history-backend"`
	HistoryDBConnect string   `mapstructure:"history-db-connect"`

	// Set when the user passed the threshold flags, since a zero value is a
	// legal threshold. Populated by the cmd layer from flag change state.
	PassThresholdSet bool `mapstructure:"-"`
	RunThresholdSet  bool `mapstructure:"-"`
}

// Config is the final, validated runtime configuration.
type Config struct {
	Project     string
	Rule        schema.CheckRule
	MaxLookback int
	CommitLimit string
	Timeout     time.Duration
	Operation   schema.GitAction
	BranchName  string
	Override    bool
	Output      schema.OutputMode
	Verbose     bool

	CIConfigFile string
	CriteriaFile string

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string
}

// ProcessAndValidate populates cfg from the raw input, applying defaults and
// validating every field. The rule built here is the ad-hoc criteria used when
// no saved criteria group is selected.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	cfg.Project = input.Project

	if input.CommitLookback <= 0 {
		return fmt.Errorf("commit-lookback must be positive, got %d", input.CommitLookback)
	}
	cfg.MaxLookback = input.CommitLookback
	cfg.CommitLimit = input.CommitLimit

	if input.TimeoutSecs < 0 {
		return fmt.Errorf("timeout-secs must not be negative, got %d", input.TimeoutSecs)
	}
	cfg.Timeout = time.Duration(input.TimeoutSecs) * time.Second

	cfg.Operation = schema.GitAction(input.GitOperation)
	if !cfg.Operation.IsValid() {
		return fmt.Errorf("unsupported git operation %q, must be one of %v", input.GitOperation, schema.GitActionValues())
	}
	cfg.BranchName = input.Branch
	if cfg.Operation == schema.BranchAction && cfg.BranchName == "" {
		return fmt.Errorf("git operation %q requires --branch", schema.BranchAction)
	}
	cfg.Override = input.Override

	switch out := schema.OutputMode(input.Output); out {
	case schema.TextOut, schema.JSONOut:
		cfg.Output = out
	default:
		return fmt.Errorf("unsupported output mode %q, must be text or json", input.Output)
	}
	cfg.Verbose = input.Verbose

	cfg.CIConfigFile = input.CIConfigFile
	cfg.CriteriaFile = input.CriteriaFile

	cfg.HistoryBackend = schema.DatabaseBackend(input.HistoryBackend)
	if !cfg.HistoryBackend.IsValid() {
		return fmt.Errorf("unsupported history backend %q, must be sqlite, mysql, postgresql, or none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect

	rule, err := buildRule(input)
	if err != nil {
		return err
	}
	cfg.Rule = rule

	return nil
}

// buildRule assembles the ad-hoc check rule from the raw input. When the user
// supplied no condition at all, the default success threshold applies.
func buildRule(input *ConfigRawInput) (schema.CheckRule, error) {
	patterns := input.BuildVariants
	if len(patterns) == 0 {
		patterns = []string{DefaultVariantPattern}
	}

	rule := schema.CheckRule{
		VariantPatterns: patterns,
		SuccessfulTasks: input.PassingTasks,
		RunTasks:        input.RunTasks,
	}
	if err := rule.ValidatePatterns(); err != nil {
		return schema.CheckRule{}, fmt.Errorf("invalid build-variant pattern: %w", err)
	}

	if input.PassThresholdSet {
		if input.PassThreshold < 0 || input.PassThreshold > 1 {
			return schema.CheckRule{}, fmt.Errorf("pass-threshold must be in [0,1], got %v", input.PassThreshold)
		}
		t := input.PassThreshold
		rule.SuccessThreshold = &t
	}
	if input.RunThresholdSet {
		if input.RunThreshold < 0 || input.RunThreshold > 1 {
			return schema.CheckRule{}, fmt.Errorf("run-threshold must be in [0,1], got %v", input.RunThreshold)
		}
		t := input.RunThreshold
		rule.RunThreshold = &t
	}

	// No criteria specified at all: fall back to the default success threshold.
	if !rule.HasConditions() {
		t := DefaultSuccessThreshold
		rule.SuccessThreshold = &t
	}

	return rule, nil
}
