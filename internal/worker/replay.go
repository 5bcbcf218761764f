package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/staycheck/internal/intent"
	"github.com/ppiankov/staycheck/internal/model"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Runner processes one conversation turn
type Runner interface {
	ProcessTurn(ctx context.Context, req model.TurnRequest) (*model.TurnResult, error)
}

// Scenario is a scripted conversation replayed through the pipeline
type Scenario struct {
	Name  string   `yaml:"name"`
	City  string   `yaml:"city,omitempty"` // Overrides the city found in messages
	Turns []string `yaml:"turns"`
}

// ScenarioFile is the on-disk replay format
type ScenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// TurnOutcome is the verification outcome of one replayed turn
type TurnOutcome struct {
	Message   string
	City      string
	State     model.LoopState
	Validated bool
	Attempts  int
	Issues    int
	Hotels    int
	Simulated bool // Ground truth was simulated or unavailable
}

// ScenarioResult holds the outcome of one scenario. A failed turn stops
// the scenario; Err is its CompletionError.
type ScenarioResult struct {
	Name  string
	Turns []TurnOutcome
	Err   error
}

// ReplayStats aggregates verification outcomes across scenarios
type ReplayStats struct {
	Scenarios   int     `json:"scenarios"`
	Turns       int     `json:"turns"`
	Validated   int     `json:"validated"`
	Corrected   int     `json:"corrected"` // Validated after at least one corrective attempt
	Exhausted   int     `json:"exhausted"`
	Failed      int     `json:"failed"` // Scenarios stopped by an error
	Attempts    int     `json:"attempts"`
	AvgAttempts float64 `json:"avg_attempts"`
	Issues      int     `json:"issues"`
}

// LoadScenarios reads a YAML scenario file
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}

	var file ScenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}

	scenarios := make([]Scenario, 0, len(file.Scenarios))
	for i, s := range file.Scenarios {
		if len(s.Turns) == 0 {
			return nil, fmt.Errorf("scenario %d (%s) has no turns", i+1, s.Name)
		}
		if strings.TrimSpace(s.Name) == "" {
			s.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// Replayer runs scenarios concurrently. Turns within a scenario run in
// order, each carrying the history returned by the previous one.
type Replayer struct {
	runner      Runner
	concurrency int
	logger      *zap.Logger
}

// NewReplayer creates a replayer running up to concurrency scenarios at once
func NewReplayer(runner Runner, concurrency int, logger *zap.Logger) *Replayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Replayer{runner: runner, concurrency: concurrency, logger: logger}
}

// Run replays every scenario and returns results in input order
func (r *Replayer) Run(ctx context.Context, scenarios []Scenario) []ScenarioResult {
	if len(scenarios) == 0 {
		return []ScenarioResult{}
	}

	pool := NewPool[ScenarioResult](ctx, r.concurrency)
	pool.Start()

	for _, s := range scenarios {
		scenario := s
		pool.Submit(func(ctx context.Context) ScenarioResult {
			return r.replay(ctx, scenario)
		})
	}

	results := pool.Wait()
	for i := range results {
		// Tasks dropped on cancellation come back empty
		if results[i].Name == "" {
			results[i] = ScenarioResult{Name: scenarios[i].Name, Err: context.Canceled}
		}
	}
	return results
}

func (r *Replayer) replay(ctx context.Context, s Scenario) ScenarioResult {
	result := ScenarioResult{Name: s.Name}
	var history []model.Message

	for _, message := range s.Turns {
		req := intent.Request(message, history, s.City)

		turn, err := r.runner.ProcessTurn(ctx, req)
		if err != nil {
			r.logger.Warn("replay turn failed",
				zap.String("scenario", s.Name),
				zap.Int("turn", len(result.Turns)+1),
				zap.Error(err))
			result.Err = err
			return result
		}

		result.Turns = append(result.Turns, TurnOutcome{
			Message:   message,
			City:      req.City,
			State:     turn.State,
			Validated: turn.Validated,
			Attempts:  turn.Attempts,
			Issues:    len(turn.Report.Issues),
			Hotels:    len(turn.FinalClaim.Hotels),
			Simulated: !turn.GroundTruth.Available || isSimulated(turn.GroundTruth),
		})
		history = turn.History
	}
	return result
}

func isSimulated(gt model.GroundTruth) bool {
	for _, rec := range gt.Records {
		if rec.DataSource == model.DataSourceSimulated {
			return true
		}
	}
	return false
}

// Stats aggregates replay results
func Stats(results []ScenarioResult) ReplayStats {
	stats := ReplayStats{Scenarios: len(results)}
	for _, res := range results {
		if res.Err != nil {
			stats.Failed++
		}
		for _, t := range res.Turns {
			stats.Turns++
			stats.Attempts += t.Attempts
			stats.Issues += t.Issues
			switch {
			case t.Validated && t.Attempts > 1:
				stats.Validated++
				stats.Corrected++
			case t.Validated:
				stats.Validated++
			default:
				stats.Exhausted++
			}
		}
	}
	if stats.Turns > 0 {
		stats.AvgAttempts = float64(stats.Attempts) / float64(stats.Turns)
	}
	return stats
}

// FailedScenarios returns the errors of scenarios stopped by a failure
func FailedScenarios(results []ScenarioResult) error {
	var errs []error
	for _, res := range results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
		}
	}
	return errors.Join(errs...)
}
