package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/cardcarnage/internal/config"
	"github.com/claude/cardcarnage/internal/importer"
	"github.com/claude/cardcarnage/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	historyPath := flag.String("path", "", "path to exported history JSON (required)")
	dryRun := flag.Bool("dry-run", false, "report counts without saving history")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *historyPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: carnage-import -config config.yaml -path history.json [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*historyPath)
	if err != nil || info.IsDir() {
		log.Error("history path does not exist or is a directory", "path", *historyPath)
		os.Exit(1)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		log.Info("DRY RUN mode: history will not be saved")
	}

	kv, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer kv.Close()
	log.Info("storage opened", "driver", cfg.Storage.Driver)

	// Run import
	imp := importer.New(storage.NewStore(kv, log), log, *dryRun)
	stats, err := imp.Import(ctx, *historyPath)
	if err != nil {
		log.Error("import failed", "error", err)
		if stats != nil {
			printStats(log, stats)
		}
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"read", stats.Read,
		"imported", stats.Imported,
		"duplicates", stats.Duplicates,
		"rejected", len(stats.Rejected),
	)
	if len(stats.Rejected) > 0 {
		log.Info("rejected workouts", "entries", stats.Rejected)
	}
}
