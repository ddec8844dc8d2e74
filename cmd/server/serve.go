package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arturoeanton/go-word2vec-similarity/internal/adapter/audit"
	"github.com/arturoeanton/go-word2vec-similarity/internal/mcp"
	"github.com/arturoeanton/go-word2vec-similarity/internal/server"
	"github.com/arturoeanton/go-word2vec-similarity/internal/service"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP similarity service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context())
		},
	}
	cmd.Flags().String("port", "", "Listen port (overrides WORD2VEC_PORT)")
	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	cfg := a.cfg

	slog.Info("starting word2vec similarity service",
		"port", cfg.Port,
		"model", cfg.ModelPath,
		"mcp_enabled", cfg.MCPEnabled,
	)

	// ── Model ────────────────────────────────────────────────────────────
	table, err := a.loadTable()
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	// ── Services ─────────────────────────────────────────────────────────
	svc := service.NewSimilarityService(table)
	auditWriter := audit.NewSlogWriter(slog.Default())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── MCP Server (separate port) ───────────────────────────────────────
	if cfg.MCPEnabled {
		mcpServer, err := mcp.NewServer(svc, mcp.WithPort(cfg.MCPPort), mcp.WithAuditWriter(auditWriter))
		if err != nil {
			return fmt.Errorf("create MCP server: %w", err)
		}
		go func() {
			if err := mcpServer.ListenAndServe(ctx); err != nil {
				slog.Error("MCP server failed", "error", err)
			}
		}()
	}

	// ── Fiber App ────────────────────────────────────────────────────────
	fiberApp := server.NewApp(svc, server.Options{
		AppName:   cfg.AppName,
		AccessLog: true,
		Audit:     auditWriter,
	})

	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		if err := fiberApp.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := fiberApp.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
