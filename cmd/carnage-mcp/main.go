package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/claude/cardcarnage/internal/app"
	"github.com/claude/cardcarnage/internal/config"
	"github.com/claude/cardcarnage/internal/mcp"
	"github.com/claude/cardcarnage/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))

	kv, err := storage.Open(context.Background(), cfg)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	svc := app.New(storage.NewStore(kv, log), log)
	s := mcp.New(svc, Version, log)

	log.Info("MCP server starting on stdio", "version", Version, "storage", cfg.Storage.Driver)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
