package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/staycheck/internal/extract"
	"github.com/ppiankov/staycheck/internal/llm"
	"github.com/ppiankov/staycheck/internal/model"
	"github.com/ppiankov/staycheck/internal/observability"
	"github.com/ppiankov/staycheck/internal/validate"
	"go.uber.org/zap"
)

// Loop drives the draft, validate and correct cycle for one turn
type Loop struct {
	provider    llm.Provider
	extractor   *extract.ClaimExtractor
	validator   *validate.Validator
	maxAttempts int
	logger      *zap.Logger
}

// NewLoop creates a loop allowing at most maxAttempts drafts
func NewLoop(provider llm.Provider, validator *validate.Validator, maxAttempts int, logger *zap.Logger) *Loop {
	if maxAttempts <= 0 {
		maxAttempts = model.DefaultMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		provider:    provider,
		extractor:   extract.NewClaimExtractor(),
		validator:   validator,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// LoopInput is what one run of the loop works from
type LoopInput struct {
	System                string
	History               []model.Message
	Prompt                string
	GroundTruth           model.GroundTruth
	RecommendationRequest bool
}

// LoopOutcome is the terminal state of the loop
type LoopOutcome struct {
	State    model.LoopState
	Claim    model.Claim
	Report   model.Report
	Attempts int
	Log      []model.CorrectionAttempt
}

// Run executes the state machine until Accepted or Exhausted. The only
// error it returns is *model.CompletionError.
func (l *Loop) Run(ctx context.Context, in LoopInput) (*LoopOutcome, error) {
	out := &LoopOutcome{}
	state := model.StateDrafting
	attempt := 1
	prompt := in.Prompt
	history := in.History
	var raw string

	for !state.Terminal() {
		if err := ctx.Err(); err != nil {
			return nil, &model.CompletionError{Provider: l.provider.Name(), Code: model.CodeCancelled, Err: err}
		}

		switch state {
		case model.StateDrafting:
			resp, err := l.provider.Complete(ctx, llm.CompletionRequest{
				System:   in.System,
				History:  history,
				Prompt:   prompt,
				JSONMode: true,
			})
			if err != nil {
				observability.RecordUpstream("llm", errorStatus(err))
				return nil, completionError(l.provider.Name(), err)
			}
			observability.RecordUpstream("llm", "ok")

			raw = resp.Content
			parsed := l.extractor.Parse(raw)
			if pt, ok := parsed.(model.PlainText); ok {
				l.logger.Debug("model answered outside the structured format",
					zap.Int("attempt", attempt),
					zap.Error(pt.Err))
			}
			out.Claim = parsed.Claim()
			assignDataSource(&out.Claim, in.GroundTruth)
			state = model.StateValidating

		case model.StateValidating:
			out.Report = l.validator.Validate(ctx, validate.Input{
				Claim:                 out.Claim,
				GroundTruth:           in.GroundTruth,
				RecommendationRequest: in.RecommendationRequest,
			})
			out.Log = append(out.Log, model.CorrectionAttempt{
				Number: attempt,
				Prompt: prompt,
				Raw:    raw,
				Claim:  out.Claim,
				Report: out.Report,
			})
			for _, issue := range out.Report.Issues {
				observability.RecordIssue(string(issue.Kind))
			}

			switch {
			case out.Report.Empty():
				state = model.StateAccepted
			case attempt < l.maxAttempts:
				state = model.StateCorrecting
			case len(out.Report.Blocking()) == 0:
				// Advisory findings alone never reject a draft
				state = model.StateAccepted
			default:
				state = model.StateExhausted
			}
			l.logger.Debug("draft validated",
				zap.Int("attempt", attempt),
				zap.Int("issues", len(out.Report.Issues)),
				zap.String("next", string(state)))

		case model.StateCorrecting:
			// The model sees its rejected draft followed by the issue list
			history = append(history[:len(history):len(history)],
				model.Message{Role: model.RoleUser, Content: prompt},
				model.Message{Role: model.RoleAssistant, Content: raw})
			prompt = CorrectionPrompt(out.Report, in.GroundTruth, attempt, l.maxAttempts)
			attempt++
			state = model.StateDrafting

		default:
			return nil, &model.CompletionError{Provider: l.provider.Name(), Code: model.CodeBadResponse, Err: fmt.Errorf("unexpected loop state %q", state)}
		}
	}

	out.State = state
	out.Attempts = attempt
	return out, nil
}

// assignDataSource tags each claimed hotel with the provenance of its
// matching record. Hotels without a real record are simulated.
func assignDataSource(claim *model.Claim, gt model.GroundTruth) {
	for i := range claim.Hotels {
		h := &claim.Hotels[i]
		h.DataSource = model.DataSourceSimulated
		h.Verified = false
		if !gt.Available {
			continue
		}
		if rec, ok := gt.Lookup(h.Name); ok {
			h.DataSource = rec.DataSource
		}
	}
}

// markVerified sets Verified on hotels backed by a record and free of
// blocking issues
func markVerified(claim *model.Claim, report model.Report, gt model.GroundTruth) {
	blocked := report.HotelsWithBlockingIssues()
	for i := range claim.Hotels {
		h := &claim.Hotels[i]
		_, found := gt.Lookup(h.Name)
		h.Verified = gt.Available && found && !blocked[model.NormalizeName(h.Name)]
	}
}

func completionError(provider string, err error) *model.CompletionError {
	var cerr *model.CompletionError
	if errors.As(err, &cerr) {
		return cerr
	}
	code := model.CodeUnavailable
	if errors.Is(err, context.Canceled) {
		code = model.CodeCancelled
	} else if errors.Is(err, context.DeadlineExceeded) {
		code = model.CodeTimeout
	}
	return &model.CompletionError{Provider: provider, Code: code, Err: err}
}

func errorStatus(err error) string {
	var cerr *model.CompletionError
	if errors.As(err, &cerr) {
		return string(cerr.Code)
	}
	var ferr *model.FetchError
	if errors.As(err, &ferr) {
		return string(ferr.Code)
	}
	return "error"
}
