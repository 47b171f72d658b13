package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"tailscale.com/tsnet"

	"github.com/apatti/hyroxtrainer/internal/coaching"
	"github.com/apatti/hyroxtrainer/internal/config"
	"github.com/apatti/hyroxtrainer/internal/mcp"
	"github.com/apatti/hyroxtrainer/internal/oracle"
	"github.com/apatti/hyroxtrainer/internal/program"
	"github.com/apatti/hyroxtrainer/internal/server"
	"github.com/apatti/hyroxtrainer/internal/session"
	"github.com/apatti/hyroxtrainer/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("hyroxtrainer starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	loc, err := cfg.Server.Location()
	if err != nil {
		log.Error("invalid timezone", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Text oracle shared by the parser and the coach
	completer, err := oracle.New(oracle.Config{
		Provider:    cfg.Oracle.Provider,
		BaseURL:     cfg.Oracle.BaseURL,
		Model:       cfg.Oracle.Model,
		APIKey:      cfg.Oracle.APIKey,
		Timeout:     cfg.Oracle.Timeout,
		Temperature: cfg.Oracle.Temperature,
		MaxTokens:   cfg.Oracle.MaxTokens,
	})
	if err != nil {
		log.Error("failed to create oracle client", "error", err)
		os.Exit(1)
	}
	completer = oracle.Instrument(completer, cfg.Oracle.Provider, oracle.NewMetrics(reg))
	log.Info("oracle configured", "provider", cfg.Oracle.Provider, "model", cfg.Oracle.Model)

	// Active session storage
	var sessions session.Store
	switch cfg.Session.Store {
	case config.SessionStoreSQLite:
		st, err := session.OpenSQLiteStore(cfg.Session.StateDir)
		if err != nil {
			log.Error("failed to open session store", "dir", cfg.Session.StateDir, "error", err)
			os.Exit(1)
		}
		defer st.Close()
		sessions = st
	default:
		sessions = session.NewMemoryStore()
	}
	log.Info("session store ready", "store", cfg.Session.Store)

	mcpSrv := mcp.New(db, Version, loc, log)

	srv := server.New(db,
		program.NewParser(completer, log),
		coaching.New(completer, log),
		session.NewManager(sessions, db, log),
		server.Options{
			APIKey:      cfg.Auth.APIKey,
			CORSOrigins: cfg.Server.CORSOrigins,
			Location:    loc,
			Registry:    reg,
			MCP:         mcpserver.NewStreamableHTTPServer(mcpSrv),
		},
		log)

	// Start server: tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
