// cmd/server/main.go
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kathir-ks/dexscreener-mcp/internal/config"
	"github.com/kathir-ks/dexscreener-mcp/internal/dexscreener"
	"github.com/kathir-ks/dexscreener-mcp/internal/tools"
	"github.com/kathir-ks/dexscreener-mcp/pkg/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	// --- Environment ---
	// A local .env is optional; real deployments set variables directly.
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment from .env")
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Logging ---
	setupLogging(cfg)
	log.Info("Starting DexScreener MCP Server...")

	// --- Provider Client & Dispatcher ---
	// One client per session: the cache and rate budget live and die with it.
	client := dexscreener.NewClient(cfg)
	dispatcher := tools.NewDispatcher(client)

	// --- Session over stdio ---
	// stdout carries protocol frames only; everything else goes to stderr.
	session := mcp.NewSession(cfg.ServerName, cfg.ServerVersion, dispatcher, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := session.Run(ctx, os.Stdin); err != nil && err != context.Canceled {
		log.Errorf("Session ended with error: %v", err)
		os.Exit(1)
	}
	log.Info("DexScreener MCP Server stopped")
}

// setupLogging configures the logger. Output always targets stderr; the
// LogEnabled flag discards it entirely instead of toggling a global switch.
func setupLogging(cfg *config.Config) {
	if !cfg.LogEnabled {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(os.Stderr)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
