package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/greenbase-cli/greenbase/core"
	"github.com/greenbase-cli/greenbase/internal/contract"
	"github.com/greenbase-cli/greenbase/internal/criteriafile"
	"github.com/greenbase-cli/greenbase/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	ci      contract.CIClient
}

func (h *toolHandler) handleFindRevision(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := request.GetString("project", h.baseCfg.Project)
	if project == "" {
		return mcp.NewToolResultError("project is required"), nil
	}

	rules, err := h.resolveRules(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	limits := core.SearchLimits{
		MaxLookback: h.baseCfg.MaxLookback,
		CommitLimit: h.baseCfg.CommitLimit,
		Timeout:     h.baseCfg.Timeout,
	}
	if l := request.GetInt("lookback", 0); l > 0 {
		limits.MaxLookback = l
	}
	if t := request.GetInt("timeout_secs", 0); t > 0 {
		limits.Timeout = time.Duration(t) * time.Second
	}

	searcher := core.NewSearcher(h.ci, limits)
	outcome, err := searcher.FindRevision(ctx, project, rules)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	result := map[string]any{
		"found":    outcome.Found(),
		"revision": outcome.Revision,
		"scanned":  outcome.Scanned,
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCheckRevision(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := request.GetString("project", h.baseCfg.Project)
	if project == "" {
		return mcp.NewToolResultError("project is required"), nil
	}
	revision := request.GetString("revision", "")
	if revision == "" {
		return mcp.NewToolResultError("revision is required"), nil
	}

	rules, err := h.resolveRules(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	version, err := h.findVersion(ctx, project, revision)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := map[string]any{
		"revision":  version.Revision,
		"satisfied": core.RulesSatisfied(version, rules),
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// findVersion scans the recent history for a revision with the given prefix,
// bounded by the configured lookback.
func (h *toolHandler) findVersion(ctx context.Context, project, revision string) (*schema.Version, error) {
	it := h.ci.Versions(ctx, project)
	for idx := 0; it.Next(ctx); idx++ {
		if idx > h.baseCfg.MaxLookback {
			break
		}
		if strings.HasPrefix(it.Version().Revision, revision) {
			return it.Version(), nil
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("listing versions for project %q: %w", project, err)
	}
	return nil, fmt.Errorf("revision %q not found in the last %d versions of %q", revision, h.baseCfg.MaxLookback, project)
}

func (h *toolHandler) handleListCriteria(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := criteriafile.Load(h.baseCfg.CriteriaFile)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading criteria: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(cfg.SavedCriteria, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

// resolveRules builds the rule list for a find_revision call: a saved group
// when criteria is given, an ad-hoc rule from the remaining params otherwise.
func (h *toolHandler) resolveRules(request mcp.CallToolRequest) ([]schema.CheckRule, error) {
	if name := request.GetString("criteria", ""); name != "" {
		cfg, err := criteriafile.Load(h.baseCfg.CriteriaFile)
		if err != nil {
			return nil, fmt.Errorf("loading criteria: %w", err)
		}
		group, err := core.GetCriteriaGroup(cfg, name)
		if err != nil {
			return nil, err
		}
		return group.Rules, nil
	}

	rule := h.baseCfg.Rule
	if p := request.GetString("build_variant", ""); p != "" {
		rule.VariantPatterns = []string{p}
		if err := rule.ValidatePatterns(); err != nil {
			return nil, fmt.Errorf("invalid build_variant pattern: %w", err)
		}
	}
	if t := request.GetFloat("pass_threshold", -1); t >= 0 {
		if t > 1 {
			return nil, fmt.Errorf("pass_threshold must be in [0,1], got %v", t)
		}
		rule.SuccessThreshold = &t
	}
	if t := request.GetFloat("run_threshold", -1); t >= 0 {
		if t > 1 {
			return nil, fmt.Errorf("run_threshold must be in [0,1], got %v", t)
		}
		rule.RunThreshold = &t
	}
	return []schema.CheckRule{rule}, nil
}
