package cmd

import (
	"github.com/spf13/cobra"

	"github.com/greenbase-cli/greenbase/internal/contract"
	"github.com/greenbase-cli/greenbase/internal/mcp"
)

// mcpCmd starts the MCP server on stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the greenbase MCP server",
	Long: `Start a Model Context Protocol server on stdio exposing revision search as
tools, so agents can find qualifying revisions without shelling out to the CLI.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		ci, err := newCIClient()
		if err != nil {
			contract.LogFatal("Could not create CI client", err)
		}
		if err := mcp.StartMCPServer(rootCtx, cfg, ci); err != nil {
			contract.LogFatal("MCP server failed", err)
		}
	},
}
