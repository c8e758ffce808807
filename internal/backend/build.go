package backend

import (
	"context"
	"fmt"

	"integribot/internal/grading"
	"integribot/internal/roles"
	"integribot/internal/state"
	"integribot/internal/telemetry"
)

// Open wires a Server from cfg. The caller owns the returned store.
func Open(ctx context.Context, cfg Config, logger *telemetry.Logger) (*Server, state.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if logger == nil {
		logger = telemetry.Discard()
	}
	catalog, err := roles.Load(cfg.RolesDir)
	if err != nil {
		return nil, nil, fmt.Errorf("load roles: %w", err)
	}
	corpus, err := LoadCorpus(cfg.CorpusPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load corpus: %w", err)
	}
	store, err := state.NewSQLite(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	var model Model
	if cfg.Gemini.Online() {
		gm, err := NewGeminiModel(ctx, cfg.Gemini)
		if err != nil {
			logger.Warn("model.init_failed", map[string]any{"error": err.Error()})
		} else {
			model = gm
		}
	}
	logger.Info("backend.ready", map[string]any{
		"online": model != nil,
		"roles":  catalog.Len(),
		"corpus": len(corpus) > 0,
		"db":     cfg.DBPath(),
	})

	onErr := func(kind string) func(error) {
		return func(err error) {
			logger.Warn(kind+".model_failed", map[string]any{"error": err.Error()})
		}
	}
	var grader grading.Grader = grading.NewKeywordGrader()
	if model != nil {
		grader = grading.NewFallback(NewModelGrader(model, corpus), grader, onErr("evaluate"))
	}
	srv := NewServer(Deps{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Scenarios: NewScenarioService(model, catalog, corpus, onErr("scenario")),
		Grader:    grader,
		Model:     model,
	})
	return srv, store, nil
}
