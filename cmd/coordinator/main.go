package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AltairaLabs/tandem-mcp/internal/coordinator"
	"github.com/AltairaLabs/tandem-mcp/internal/observer"
	"github.com/AltairaLabs/tandem-mcp/internal/worklog"
)

const (
	serverName    = "tandem-mcp-coordinator"
	serverVersion = "0.1.0"

	defaultWorklogRoot = ".worklog"
)

var (
	version = flag.Bool("version", false, "Print version and exit")
	debug   = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", serverName, serverVersion)
		os.Exit(0)
	}

	// Setup structured logging. Stdout carries the MCP stdio transport, so
	// all logs go to stderr.
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	worklogRoot := os.Getenv("WORKLOG_ROOT")
	if worklogRoot == "" {
		worklogRoot = defaultWorklogRoot
	}
	sessionID := os.Getenv("TANDEM_SESSION_ID")

	logger.Info("Starting tandem MCP coordinator",
		"version", serverVersion,
		"debug", *debug,
		"worklog_root", worklogRoot,
	)

	store, err := worklog.Open(worklogRoot, sessionID)
	if err != nil {
		log.Fatalf("Failed to open worklog store: %v", err)
	}
	logger.Info("Worklog session opened",
		"session_id", store.SessionID(),
		"dir", store.Dir(),
	)

	obsCfg, err := observer.LoadConfig(os.Getenv("OBSERVER_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load observer config: %v", err)
	}
	prompts, err := observer.LoadPrompts(os.Getenv("OBSERVER_PROMPTS"))
	if err != nil {
		log.Fatalf("Failed to load observer prompts: %v", err)
	}
	oracle := observer.NewClient(obsCfg, prompts, logger)

	auditLogger := coordinator.NewAuditLogger(logger)

	cfg := coordinator.Config{
		Name:    serverName,
		Version: serverVersion,
	}
	mcpServer := coordinator.NewMCPServer(cfg, store, oracle, auditLogger)

	logger.Info("MCP Server initialized",
		"name", cfg.Name,
		"version", cfg.Version,
		"observer_url", obsCfg.APIURL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting MCP server with stdio transport")
	if err := mcpServer.ServeContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}

	logger.Info("Coordinator shutdown complete")
}
