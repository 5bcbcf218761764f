package validate

import (
	"context"
	"math"
	"strconv"

	"github.com/ppiankov/staycheck/internal/model"
	"golang.org/x/sync/errgroup"
)

// Checker inspects a claim and reports issues. Checkers must not mutate
// their input.
type Checker interface {
	// Name returns the checker name for logging and metrics
	Name() string

	// Check runs the check and returns findings in a stable order
	Check(ctx context.Context, input *Input) []model.Issue
}

// Input is the data every checker sees
type Input struct {
	Claim                 model.Claim
	GroundTruth           model.GroundTruth
	RecommendationRequest bool
}

// Policy holds the named thresholds used by the checkers
type Policy struct {
	PriceTolerance       float64
	RatingTolerance      float64
	MinPlausiblePrice    float64
	MaxPlausiblePrice    float64
	MaxRatingDecimals    int
	UniformValueMinCount int
	ListingOnlyMinHotels int
}

// DefaultPolicy returns the default thresholds
func DefaultPolicy() Policy {
	return PolicyFromConfig(model.DefaultConfig().Validation)
}

// PolicyFromConfig converts the validation config section into a Policy
func PolicyFromConfig(cfg model.ValidationConfig) Policy {
	return Policy{
		PriceTolerance:       cfg.PriceTolerance,
		RatingTolerance:      cfg.RatingTolerance,
		MinPlausiblePrice:    cfg.MinPlausiblePrice,
		MaxPlausiblePrice:    cfg.MaxPlausiblePrice,
		MaxRatingDecimals:    cfg.MaxRatingDecimals,
		UniformValueMinCount: cfg.UniformValueMinCount,
		ListingOnlyMinHotels: cfg.ListingOnlyMinHotels,
	}
}

// Validator runs every checker and merges their findings
type Validator struct {
	checkers []Checker
}

// NewValidator creates a validator with the grounding, consistency,
// plausibility and fusion checkers, in that order
func NewValidator(policy Policy) *Validator {
	return &Validator{
		checkers: []Checker{
			NewGroundingChecker(policy),
			NewConsistencyChecker(policy),
			NewPlausibilityChecker(policy),
			NewFusionChecker(policy),
		},
	}
}

// Checkers returns the configured checkers in report order
func (v *Validator) Checkers() []Checker {
	return v.checkers
}

// Validate runs the checkers concurrently. The report lists findings in
// checker order regardless of completion order.
func (v *Validator) Validate(ctx context.Context, input Input) model.Report {
	results := make([][]model.Issue, len(v.checkers))

	g, gCtx := errgroup.WithContext(ctx)
	for i, checker := range v.checkers {
		g.Go(func() error {
			results[i] = checker.Check(gCtx, &input)
			return nil
		})
	}
	_ = g.Wait()

	report := model.Report{Issues: []model.Issue{}}
	for _, issues := range results {
		report.Issues = append(report.Issues, issues...)
	}
	return report
}

// Helper functions

// floatEps absorbs binary rounding when comparing decimal values
const floatEps = 1e-9

func exceeds(claimed, truth, tolerance float64) bool {
	return math.Abs(claimed-truth) > tolerance+floatEps
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func strPtr(s string) *string {
	return &s
}
