// Package core holds the criteria evaluation, revision search and checkout
// orchestration logic for greenbase.
package core

import (
	log "github.com/charmbracelet/log"

	"github.com/greenbase-cli/greenbase/schema"
)

// RulesSatisfied reports whether the version passes every rule in rules.
// Rules combine with logical AND; evaluation short-circuits on the first
// failing rule, but rule conditions are independent so ordering never changes
// the outcome.
func RulesSatisfied(version *schema.Version, rules []schema.CheckRule) bool {
	for i := range rules {
		if !ruleSatisfied(version, &rules[i]) {
			log.Debug("Rule not satisfied", "revision", version.Revision, "rule", i)
			return false
		}
	}
	return true
}

// ruleSatisfied checks one rule against every in-scope build of the version.
// A version with zero in-scope builds passes the rule vacuously.
func ruleSatisfied(version *schema.Version, rule *schema.CheckRule) bool {
	for i := range version.Builds {
		build := &version.Builds[i]
		if !rule.MatchesVariant(build.DisplayName) {
			continue
		}
		if !buildSatisfied(build, rule) {
			return false
		}
	}
	return true
}

// buildSatisfied checks the rule's thresholds and required task sets against
// a single in-scope build.
func buildSatisfied(build *schema.Build, rule *schema.CheckRule) bool {
	var scheduled, ran, succeeded int
	for _, task := range build.Tasks {
		if task.Scheduled {
			scheduled++
		}
		if task.Ran {
			ran++
		}
		if task.Succeeded {
			succeeded++
		}
	}

	// A zero denominator satisfies the threshold trivially: a build that
	// scheduled (or ran) nothing has no statistic to fall short on.
	if rule.RunThreshold != nil && scheduled > 0 && ratio(ran, scheduled) < *rule.RunThreshold {
		log.Debug("Run threshold missed", "build", build.DisplayName,
			"ran", ran, "scheduled", scheduled, "threshold", *rule.RunThreshold)
		return false
	}
	if rule.SuccessThreshold != nil && ran > 0 && ratio(succeeded, ran) < *rule.SuccessThreshold {
		log.Debug("Success threshold missed", "build", build.DisplayName,
			"succeeded", succeeded, "ran", ran, "threshold", *rule.SuccessThreshold)
		return false
	}

	for _, task := range build.Tasks {
		if !task.Scheduled {
			// Required tasks are best-effort: builds that never scheduled the
			// task are not penalized.
			continue
		}
		if containsName(rule.SuccessfulTasks, task.Name) && !task.Succeeded {
			log.Debug("Required successful task failed", "build", build.DisplayName, "task", task.Name)
			return false
		}
		if containsName(rule.RunTasks, task.Name) && !task.Ran {
			log.Debug("Required run task did not run", "build", build.DisplayName, "task", task.Name)
			return false
		}
	}
	return true
}

// ratio returns num/den, or 0 when the denominator is 0 so that a build with
// nothing scheduled trivially satisfies thresholds of 0 and avoids division
// faults.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
