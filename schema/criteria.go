package schema

import "regexp"

// CheckRule is one matching condition applied to the builds of a CI version.
// A build is in scope for the rule when its display name matches at least one
// of VariantPatterns. Thresholds are fractions in [0,1] and are inclusive.
// Required task sets are per-build, best-effort: a task that a build never
// scheduled does not fail that build.
type CheckRule struct {
	VariantPatterns  []string `yaml:"variant_patterns" json:"variant_patterns"`
	SuccessThreshold *float64 `yaml:"success_threshold,omitempty" json:"success_threshold,omitempty"`
	RunThreshold     *float64 `yaml:"run_threshold,omitempty" json:"run_threshold,omitempty"`
	SuccessfulTasks  []string `yaml:"required_successful_tasks,omitempty" json:"required_successful_tasks,omitempty"`
	RunTasks         []string `yaml:"required_run_tasks,omitempty" json:"required_run_tasks,omitempty"`
}

// HasConditions reports whether the rule carries at least one condition.
// A rule without any is a configuration error.
func (r *CheckRule) HasConditions() bool {
	return r.SuccessThreshold != nil || r.RunThreshold != nil ||
		len(r.SuccessfulTasks) > 0 || len(r.RunTasks) > 0
}

// MatchesVariant reports whether the build display name is in scope for the rule.
// Patterns are validated at the configuration boundary, so a pattern that fails
// to compile here is treated as a non-match.
func (r *CheckRule) MatchesVariant(displayName string) bool {
	for _, p := range r.VariantPatterns {
		if ok, err := regexp.MatchString(p, displayName); err == nil && ok {
			return true
		}
	}
	return false
}

// OverlapsWith reports whether two rules target a shared build variant scope,
// i.e. share at least one variant pattern. Used for save/import conflict
// detection.
func (r *CheckRule) OverlapsWith(other *CheckRule) bool {
	for _, p := range r.VariantPatterns {
		for _, q := range other.VariantPatterns {
			if p == q {
				return true
			}
		}
	}
	return false
}

// ValidatePatterns compiles every variant pattern and returns the first error.
func (r *CheckRule) ValidatePatterns() error {
	for _, p := range r.VariantPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return err
		}
	}
	return nil
}

// CheckGroup is a named, ordered list of rules. A version satisfies the group
// only when it satisfies every rule in the list.
type CheckGroup struct {
	Name  string      `yaml:"name" json:"name"`
	Rules []CheckRule `yaml:"rules" json:"rules"`
}

// CriteriaConfig is the persisted configuration document holding all saved
// criteria groups. It is read once per run and fully rewritten on mutation.
type CriteriaConfig struct {
	SavedCriteria []CheckGroup `yaml:"saved_criteria" json:"saved_criteria"`
}
