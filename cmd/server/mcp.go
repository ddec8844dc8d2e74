package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arturoeanton/go-word2vec-similarity/internal/mcp"
	"github.com/arturoeanton/go-word2vec-similarity/internal/service"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server (stdio mode)",
		Long: `Start the Model Context Protocol server for AI agent integration.

Exposes the most_similar tool over stdio.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMCP(cmd.Context())
		},
	}
}

func (a *app) runMCP(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	table, err := a.loadTable()
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	server, err := mcp.NewServer(service.NewSimilarityService(table))
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
