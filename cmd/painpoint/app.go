package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	painpoint "github.com/Lucas-Song-Dev/RedditPainpoint"
	"github.com/Lucas-Song-Dev/RedditPainpoint/internal/config"
	"github.com/Lucas-Song-Dev/RedditPainpoint/internal/logging"
	"github.com/Lucas-Song-Dev/RedditPainpoint/internal/store"
)

// app bundles what every command needs: configuration, logger, store and an
// analyzer sharing one classifier.
type app struct {
	cfg        config.Config
	logger     *slog.Logger
	store      *store.Store
	classifier *painpoint.Classifier
	analyzer   *painpoint.Analyzer
}

// loadApp reads the configuration, opens the store and restores the stored
// classifier. modelFile, when set, is loaded instead of the stored artifact.
func loadApp(ctx context.Context, modelFile string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	// Logs go to stderr so JSON on stdout stays parseable.
	logger := logging.NewWriter(os.Stderr, cfg.Log.Level)

	st, err := store.Open(cfg.Storage.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, store: st}
	if err := a.build(ctx, modelFile); err != nil {
		st.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) build(ctx context.Context, modelFile string) error {
	clfConfig := painpoint.DefaultClassifierConfig()
	clfConfig.MinSamples = a.cfg.Model.MinSamples
	clfConfig.Seed = a.cfg.Model.Seed
	clfConfig.Logger = a.logger
	a.classifier = painpoint.NewClassifier(clfConfig)

	switch {
	case modelFile != "":
		if err := a.classifier.LoadFile(modelFile); err != nil {
			return fmt.Errorf("loading model %s: %w", modelFile, err)
		}
		a.logger.Info("loaded classifier", "file", modelFile)
	default:
		artifact, err := a.store.LoadArtifact(ctx, a.cfg.Model.Name)
		switch {
		case errors.Is(err, store.ErrNotFound):
			a.logger.Debug("no stored classifier, using the lexicon only", "model", a.cfg.Model.Name)
		case err != nil:
			return err
		default:
			if err := a.classifier.UnmarshalBinary(artifact.Blob); err != nil {
				return fmt.Errorf("loading stored model %s: %w", a.cfg.Model.Name, err)
			}
			a.logger.Info("loaded classifier", "model", a.cfg.Model.Name, "trained_at", artifact.TrainedAt)
		}
	}

	lexicon, err := painpoint.LoadLexicon(a.cfg.Analysis.LexiconPath)
	if err != nil {
		return err
	}

	a.analyzer = painpoint.NewAnalyzer(
		painpoint.WithLexicon(lexicon),
		painpoint.WithClassifier(a.classifier),
		painpoint.WithLogger(a.logger),
		painpoint.WithWorkers(a.cfg.Analysis.Workers),
		painpoint.WithTopTopics(a.cfg.Analysis.TopTopics),
		painpoint.WithKeywordLimit(a.cfg.Analysis.KeywordLimit),
		painpoint.WithProducts(a.cfg.Analysis.Products...),
	)
	return nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		printWarning("closing storage: %v", err)
	}
}

// reanalyze scores every stored document again with the current model and
// persists the new result.
func (a *app) reanalyze(ctx context.Context) error {
	docs, err := a.store.ListDocuments(ctx, store.DocumentFilter{})
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		a.logger.Info("no stored documents to re-analyze")
		return nil
	}

	result, err := a.analyzer.AnalyzeBatch(ctx, docs)
	if err != nil {
		return err
	}
	skipped, err := a.store.SaveBatch(ctx, docs, result)
	if err != nil {
		return err
	}
	if skipped > 0 {
		a.logger.Warn("pain points skipped while persisting", "run_id", result.RunID, "skipped", skipped)
	}
	return nil
}
