package main

import (
	"context"

	"github.com/spf13/cobra"

	"casetrack/internal/logging"
	"casetrack/internal/mcpserver"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Long: `Starts an MCP server over stdin/stdout exposing read-only tools:
analyze_cases and case_history. Every call re-reads the case list and the
history file.

The server exits when its parent process goes away.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := logging.New("mcp")
	srv := mcpserver.NewServer(settings.Cases, settings.History, version,
		mcpserver.WithStrict(settings.Strict),
		mcpserver.WithLogger(logger),
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	mcpserver.WatchParent(ctx, cancel, logger)

	logger.Info("starting casetrack MCP server over stdio", "cases", settings.Cases, "history", settings.History)
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
