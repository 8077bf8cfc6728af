// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/greenbase-cli/greenbase/internal/contract"
)

// NewMCPServer initializes and configures the greenbase MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, ci contract.CIClient) *server.MCPServer {
	s := server.NewMCPServer(
		"Greenbase Revision Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		ci:      ci,
	}

	// --- 1. Tool: find_revision ---
	s.AddTool(mcp.NewTool("find_revision",
		mcp.WithDescription("Find the newest revision of a CI project whose build results satisfy the given criteria."),
		mcp.WithString("project", mcp.Description("CI project to search."), mcp.Required()),
		mcp.WithString("criteria", mcp.Description("Name of a saved criteria group to use instead of ad-hoc thresholds.")),
		mcp.WithString("build_variant", mcp.Description("Regex of build variants to check. Defaults to '.*-required$'.")),
		mcp.WithNumber("pass_threshold", mcp.Description("Fraction of tasks that must have passed in each matched build (0-1).")),
		mcp.WithNumber("run_threshold", mcp.Description("Fraction of tasks that must have run in each matched build (0-1).")),
		mcp.WithNumber("lookback", mcp.Description("Number of versions to scan before giving up. Defaults to 50.")),
		mcp.WithNumber("timeout_secs", mcp.Description("Number of seconds to search before giving up.")),
	), h.handleFindRevision)

	// --- 2. Tool: check_revision ---
	s.AddTool(mcp.NewTool("check_revision",
		mcp.WithDescription("Check whether a specific revision of a CI project satisfies the given criteria."),
		mcp.WithString("project", mcp.Description("CI project to search."), mcp.Required()),
		mcp.WithString("revision", mcp.Description("Revision to evaluate, by prefix match."), mcp.Required()),
		mcp.WithString("criteria", mcp.Description("Name of a saved criteria group to use instead of ad-hoc thresholds.")),
		mcp.WithString("build_variant", mcp.Description("Regex of build variants to check. Defaults to '.*-required$'.")),
		mcp.WithNumber("pass_threshold", mcp.Description("Fraction of tasks that must have passed in each matched build (0-1).")),
		mcp.WithNumber("run_threshold", mcp.Description("Fraction of tasks that must have run in each matched build (0-1).")),
	), h.handleCheckRevision)

	// --- 3. Tool: list_criteria ---
	s.AddTool(mcp.NewTool("list_criteria",
		mcp.WithDescription("List the saved criteria groups available for revision searches."),
	), h.handleListCriteria)

	return s
}

// StartMCPServer starts the greenbase MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, ci contract.CIClient) error {
	s := NewMCPServer(baseCfg, ci)
	return server.ServeStdio(s)
}
