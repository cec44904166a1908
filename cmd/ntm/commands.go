package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/drewfead/ntm/internal/browser"
	"github.com/drewfead/ntm/internal/config"
	"github.com/drewfead/ntm/internal/git"
	"github.com/drewfead/ntm/internal/logging"
	"github.com/drewfead/ntm/internal/notion"
	"github.com/drewfead/ntm/internal/prompt"
	"github.com/drewfead/ntm/internal/workflow"
)

const flushTimeout = 2 * time.Second

func loadConfig(opts *options) (config.Config, error) {
	return config.Load(config.LoadOptions{
		ConfigFile: opts.configFile,
		EnvFile:    opts.envFile,
	})
}

// setup loads and validates configuration, installs logging and builds the
// engine. Logs are flushed by run once the final error has been reported.
func setup(out io.Writer, opts *options) (*workflow.Engine, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	if err := logging.Init(logging.Config{
		Level:     level,
		SentryDSN: cfg.Logging.SentryDSN,
		Version:   Version,
		LogFile:   cfg.Logging.File,
		RunID:     uuid.NewString(),
	}); err != nil {
		return nil, err
	}

	client := notion.NewClient(cfg.Notion.BaseURL, cfg.Notion.Token, cfg.Notion.Version)
	store := notion.NewStore(client, cfg.Notion.DatabaseID, notion.SchemaFromConfig(cfg.Notion))

	engine := workflow.New(cfg, workflow.Options{
		Store:              store,
		Prompt:             prompt.NewTerminal(),
		Git:                git.New(""),
		Browser:            browser.New(),
		Out:                out,
		PreviewDescription: opts.verbose,
	})
	logging.Debug("engine ready", "version", Version, "store", store.Name(), "database", cfg.Notion.DatabaseID)
	return engine, nil
}

func runNew(ctx context.Context, out io.Writer, opts *options) error {
	engine, err := setup(out, opts)
	if err != nil {
		return err
	}
	return engine.NewTicket(ctx)
}

func runMR(ctx context.Context, out io.Writer, opts *options) error {
	engine, err := setup(out, opts)
	if err != nil {
		return err
	}
	_, err = engine.MergeRequest(ctx)
	return err
}

func runShowConfig(out io.Writer, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	return printConfig(out, cfg)
}
