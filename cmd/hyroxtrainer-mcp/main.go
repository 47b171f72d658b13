package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/apatti/hyroxtrainer/internal/config"
	"github.com/apatti/hyroxtrainer/internal/mcp"
	"github.com/apatti/hyroxtrainer/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	remote := flag.String("remote", "", "base URL of a hyroxtrainer server; enables remote mode")
	apiKey := flag.String("api-key", os.Getenv("HYROX_AUTH_API_KEY"), "API key for the remote server")
	tz := flag.String("tz", "", "IANA timezone deciding today's date in remote mode (default local)")
	flag.Parse()

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var (
		ds  mcp.DataSource
		loc = time.Local
	)
	if *remote != "" {
		if *tz != "" {
			l, err := time.LoadLocation(*tz)
			if err != nil {
				log.Error("invalid timezone", "tz", *tz, "error", err)
				os.Exit(1)
			}
			loc = l
		}
		ds = mcp.NewHTTPClient(*remote, *apiKey)
		log.Info("remote mode", "server", *remote)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		if loc, err = cfg.Server.Location(); err != nil {
			log.Error("invalid timezone", "error", err)
			os.Exit(1)
		}

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("local mode", "database", cfg.Database.Name)
	}

	s := mcp.New(ds, Version, loc, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
