package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/claude/planfit/internal/catalog"
	"github.com/claude/planfit/internal/config"
	planfitmcp "github.com/claude/planfit/internal/mcp"
	"github.com/claude/planfit/internal/storage"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// planfit-mcp serves the planner over MCP stdio for LLM agent hosts.
// Logs go to stderr; stdout belongs to the protocol.
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.Open(ctx, cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	cat := catalog.Load(cfg.Dataset.Path, log)

	s := planfitmcp.New(db, cat, Version, log)
	log.Info("PlanFit MCP server starting", "version", Version, "exercises", cat.Len())

	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
