package cli

import (
	"fmt"

	"github.com/ppiankov/staycheck/internal/hotels"
	"github.com/ppiankov/staycheck/internal/llm"
	"github.com/ppiankov/staycheck/internal/logging"
	"github.com/ppiankov/staycheck/internal/model"
	"github.com/ppiankov/staycheck/internal/pipeline"
	"go.uber.org/zap"
)

// app holds what every turn-running command needs
type app struct {
	cfg      model.Config
	logger   *zap.Logger
	pipeline *pipeline.Pipeline
}

// newApp loads configuration and wires the pipeline
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	provider, err := llm.New(llm.ConfigFromModel(cfg.LLM, cfg.HTTP, logger))
	if err != nil {
		return nil, fmt.Errorf("create LLM provider: %w", err)
	}

	hotelClient, err := hotels.New(cfg.Hotels, cfg.HTTP, logger)
	if err != nil {
		return nil, fmt.Errorf("create hotel client: %w", err)
	}

	logger.Debug("Pipeline configured",
		zap.String("llm", provider.Name()),
		zap.String("hotels", hotelClient.Name()),
		zap.Int("max_attempts", cfg.Correction.MaxAttempts),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		pipeline: pipeline.New(hotelClient, provider, cfg, pipeline.WithLogger(logger)),
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}
