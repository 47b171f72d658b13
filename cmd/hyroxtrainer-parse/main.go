package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/apatti/hyroxtrainer/internal/config"
	"github.com/apatti/hyroxtrainer/internal/models"
	"github.com/apatti/hyroxtrainer/internal/oracle"
	"github.com/apatti/hyroxtrainer/internal/program"
	"github.com/apatti/hyroxtrainer/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to a text file holding the program (required)")
	name := flag.String("name", "", "program name (required)")
	start := flag.String("start", "", "start date YYYY-MM-DD; workouts get calendar dates from it")
	save := flag.Bool("save", false, "save the parsed program to the database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *filePath == "" || *name == "" {
		fmt.Fprintf(os.Stderr, "Usage: hyroxtrainer-parse -config config.yaml -file program.txt -name \"Hyrox 12 Week\" [-start 2024-01-01] [-save]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		log.Error("failed to read program file", "path", *filePath, "error", err)
		os.Exit(1)
	}

	var startDate *models.Date
	if *start != "" {
		d, err := models.ParseDate(*start)
		if err != nil {
			log.Error("invalid start date", "error", err)
			os.Exit(1)
		}
		startDate = &d
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

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

	ctx := context.Background()
	log.Info("parsing program", "name", *name, "provider", cfg.Oracle.Provider, "bytes", len(raw))
	doc, err := program.NewParser(completer, log).Parse(ctx, string(raw), *name, startDate)
	if err != nil {
		log.Error("parse failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(program.Describe(*doc))

	if !*save {
		return
	}

	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	saved, err := db.SavePlan(ctx, *doc)
	if err != nil {
		log.Error("save failed", "error", err)
		os.Exit(1)
	}
	log.Info("program saved", "id", saved.Program.ID, "workouts", len(saved.Workouts))
}
