// Package pipeline verifies language-model hotel recommendations against
// live hotel data and repairs them before they reach the user.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/staycheck/internal/hotels"
	"github.com/ppiankov/staycheck/internal/llm"
	"github.com/ppiankov/staycheck/internal/model"
	"github.com/ppiankov/staycheck/internal/observability"
	"github.com/ppiankov/staycheck/internal/score"
	"github.com/ppiankov/staycheck/internal/validate"
	"go.uber.org/zap"
)

// Pipeline orchestrates one conversation turn: fetch, draft, verify, correct
type Pipeline struct {
	hotels       hotels.Client
	loop         *Loop
	scorer       *score.Scorer
	historyLimit int
	logger       *zap.Logger
	now          func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the pipeline logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithClock replaces the clock used for the date in the system prompt
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a pipeline over the given clients
func New(hotelClient hotels.Client, provider llm.Provider, cfg model.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		hotels:       hotelClient,
		scorer:       score.NewScorer(),
		historyLimit: cfg.Correction.HistoryLimit,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.historyLimit <= 0 {
		p.historyLimit = model.DefaultHistoryLimit
	}

	validator := validate.NewValidator(validate.PolicyFromConfig(cfg.Validation))
	p.loop = NewLoop(provider, validator, cfg.Correction.MaxAttempts, p.logger)
	return p
}

// ProcessTurn runs one turn. The request history is never modified; the
// result carries the history for the next turn. The only error returned
// is *model.CompletionError.
func (p *Pipeline) ProcessTurn(ctx context.Context, req model.TurnRequest) (*model.TurnResult, error) {
	start := time.Now()
	turnID := uuid.NewString()
	logger := p.logger.With(zap.String("turn_id", turnID))

	gt := p.groundTruth(ctx, req.City, logger)

	outcome, err := p.loop.Run(ctx, LoopInput{
		System:                SystemPrompt(p.now()),
		History:               llm.TrimHistory(req.History, p.historyLimit),
		Prompt:                TurnPrompt(req.Message, req.City, gt),
		GroundTruth:           gt,
		RecommendationRequest: req.RecommendationRequest,
	})
	if err != nil {
		observability.RecordTurn(observability.OutcomeFailed, 0, time.Since(start).Seconds())
		logger.Error("turn failed", zap.Error(err))
		return nil, err
	}

	claim := outcome.Claim
	markVerified(&claim, outcome.Report, gt)

	result := &model.TurnResult{
		TurnID:      turnID,
		FinalClaim:  claim,
		Validated:   outcome.State == model.StateAccepted,
		Attempts:    outcome.Attempts,
		State:       outcome.State,
		Report:      outcome.Report,
		GroundTruth: gt,
		AttemptLog:  outcome.Log,
		History:     nextHistory(req.History, req.Message, claim.Narrative),
	}
	if outcome.State == model.StateExhausted {
		disclosure := Disclosure(outcome.Report, gt)
		result.Disclosure = &disclosure
	}
	result.Summary = p.scorer.Calculate(score.Input{
		Claim:       claim,
		Report:      outcome.Report,
		GroundTruth: gt,
		Attempts:    outcome.Attempts,
		Validated:   result.Validated,
	})

	label := turnOutcome(result)
	observability.RecordTurn(label, result.Attempts, time.Since(start).Seconds())
	logger.Info("turn processed",
		zap.String("city", req.City),
		zap.String("outcome", label),
		zap.Int("attempts", result.Attempts),
		zap.Int("hotels", len(claim.Hotels)),
		zap.Int("issues", len(outcome.Report.Issues)),
		zap.Bool("ground_truth", gt.Available),
		zap.Int("index", result.Summary.Index))

	return result, nil
}

// groundTruth fetches the hotel records for city. A failed fetch yields
// unavailable ground truth rather than an error.
func (p *Pipeline) groundTruth(ctx context.Context, city string, logger *zap.Logger) model.GroundTruth {
	gt := model.GroundTruth{Query: city, Source: p.hotels.Name()}
	if city == "" {
		return gt
	}

	records, err := p.hotels.Fetch(ctx, city)
	if err != nil {
		var fe *model.FetchError
		code := "error"
		if errors.As(err, &fe) {
			code = string(fe.Code)
		}
		observability.RecordUpstream("hotels", code)
		logger.Warn("hotel data unavailable, continuing without ground truth",
			zap.String("city", city),
			zap.String("code", code),
			zap.Error(err))
		return gt
	}
	observability.RecordUpstream("hotels", "ok")

	gt.Records = records
	gt.Available = true
	return gt
}

// nextHistory appends this exchange to a copy of the caller's history
func nextHistory(history []model.Message, message, narrative string) []model.Message {
	next := make([]model.Message, 0, len(history)+2)
	next = append(next, history...)
	return append(next,
		model.Message{Role: model.RoleUser, Content: message},
		model.Message{Role: model.RoleAssistant, Content: narrative})
}

func turnOutcome(r *model.TurnResult) string {
	switch {
	case !r.Validated:
		return observability.OutcomeExhausted
	case r.Attempts > 1:
		return observability.OutcomeCorrected
	default:
		return observability.OutcomeAccepted
	}
}
