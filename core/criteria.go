package core

import (
	"errors"
	"fmt"

	"github.com/greenbase-cli/greenbase/schema"
)

// Sentinel errors for criteria configuration handling.
var (
	// ErrNoCriteriaFound indicates a lookup of a criteria name with no rules.
	ErrNoCriteriaFound = errors.New("no criteria found")

	// ErrCriteriaConflict indicates a save would redefine an existing rule's
	// variant scope without override.
	ErrCriteriaConflict = errors.New("conflicting criteria")
)

// AddCriteria appends rule to the group named name in cfg, creating the group
// if absent. When a rule with overlapping variant scope already exists under
// that name, the add fails with ErrCriteriaConflict unless override is set,
// in which case the overlapping rules are replaced.
func AddCriteria(cfg *schema.CriteriaConfig, name string, rule schema.CheckRule, override bool) error {
	if !rule.HasConditions() {
		return fmt.Errorf("criteria %q: rule has no thresholds or required tasks", name)
	}
	if err := rule.ValidatePatterns(); err != nil {
		return fmt.Errorf("criteria %q: %w", name, err)
	}

	for i := range cfg.SavedCriteria {
		group := &cfg.SavedCriteria[i]
		if group.Name != name {
			continue
		}

		kept := group.Rules[:0:0]
		conflict := false
		for _, existing := range group.Rules {
			if existing.OverlapsWith(&rule) {
				conflict = true
				continue // replaced when override is set
			}
			kept = append(kept, existing)
		}
		if conflict && !override {
			return fmt.Errorf("criteria %q already covers variants %v: %w", name, rule.VariantPatterns, ErrCriteriaConflict)
		}
		group.Rules = append(kept, rule)
		return nil
	}

	cfg.SavedCriteria = append(cfg.SavedCriteria, schema.CheckGroup{
		Name:  name,
		Rules: []schema.CheckRule{rule},
	})
	return nil
}

// GetCriteriaGroup looks up the group named name.
func GetCriteriaGroup(cfg *schema.CriteriaConfig, name string) (*schema.CheckGroup, error) {
	for i := range cfg.SavedCriteria {
		if cfg.SavedCriteria[i].Name == name {
			if len(cfg.SavedCriteria[i].Rules) == 0 {
				return nil, fmt.Errorf("criteria %q: %w", name, ErrNoCriteriaFound)
			}
			return &cfg.SavedCriteria[i], nil
		}
	}
	return nil, fmt.Errorf("criteria %q: %w", name, ErrNoCriteriaFound)
}

// MergeCriteria imports every rule of src into dst rule-by-rule through
// AddCriteria, so the interactive and bulk paths share one conflict policy.
// dst is left untouched when any rule fails.
func MergeCriteria(dst *schema.CriteriaConfig, src *schema.CriteriaConfig, override bool) error {
	// Merge into a scratch copy first so a conflict cannot corrupt dst.
	scratch := cloneCriteria(dst)
	for _, group := range src.SavedCriteria {
		for _, rule := range group.Rules {
			if err := AddCriteria(scratch, group.Name, rule, override); err != nil {
				return err
			}
		}
	}
	*dst = *scratch
	return nil
}

// ExportCriteria returns a config holding only the named groups of cfg.
func ExportCriteria(cfg *schema.CriteriaConfig, names []string) *schema.CriteriaConfig {
	selected := make(map[string]bool, len(names))
	for _, n := range names {
		selected[n] = true
	}
	out := &schema.CriteriaConfig{}
	for _, group := range cfg.SavedCriteria {
		if selected[group.Name] {
			out.SavedCriteria = append(out.SavedCriteria, group)
		}
	}
	return out
}

func cloneCriteria(cfg *schema.CriteriaConfig) *schema.CriteriaConfig {
	out := &schema.CriteriaConfig{SavedCriteria: make([]schema.CheckGroup, len(cfg.SavedCriteria))}
	for i, group := range cfg.SavedCriteria {
		rules := make([]schema.CheckRule, len(group.Rules))
		copy(rules, group.Rules)
		out.SavedCriteria[i] = schema.CheckGroup{Name: group.Name, Rules: rules}
	}
	return out
}
