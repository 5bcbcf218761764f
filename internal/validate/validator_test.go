package validate

import (
	"context"
	"testing"

	"github.com/ppiankov/staycheck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_EmptyReportForGroundedClaim(t *testing.T) {
	v := NewValidator(DefaultPolicy())
	claim := model.Claim{
		Narrative: "Hotel Azur is cheaper than Hotel Bleu.",
		Hotels: []model.ClaimedHotel{
			{Name: "Hotel Azur", Price: f(120), Rating: f(4.5)},
			{Name: "Hotel Bleu", Price: f(180), Rating: f(4.8)},
		},
	}

	report := v.Validate(context.Background(), Input{Claim: claim, GroundTruth: parisTruth(), RecommendationRequest: true})

	assert.True(t, report.Empty())
	assert.NotNil(t, report.Issues)
}

func TestValidator_FixedCheckerOrder(t *testing.T) {
	v := NewValidator(DefaultPolicy())
	claim := model.Claim{
		Narrative: "Options:\n1. Hotel Azur\n2. Hotel Azur\n3. Mirage Hotel",
		Hotels: []model.ClaimedHotel{
			{Name: "Hotel Azur", Price: f(150)},
			{Name: "Hotel Azur", Price: f(120)},
			{Name: "Mirage Hotel", Price: f(7000)},
		},
	}

	// Run repeatedly; concurrency must never change the order
	for i := 0; i < 20; i++ {
		report := v.Validate(context.Background(), Input{Claim: claim, GroundTruth: parisTruth()})

		var kinds []model.IssueKind
		for _, issue := range report.Issues {
			kinds = append(kinds, issue.Kind)
		}
		require.Equal(t, []model.IssueKind{
			model.IssueGroundingMismatch, // Azur price 150
			model.IssueGroundingMismatch, // Mirage not in source data
			model.IssueDuplicate,
			model.IssueImplausible, // 7000
			model.IssueListingOnly,
		}, kinds)
	}
}

func TestValidator_Checkers(t *testing.T) {
	v := NewValidator(DefaultPolicy())

	var names []string
	for _, c := range v.Checkers() {
		names = append(names, c.Name())
	}

	assert.Equal(t, []string{"grounding", "consistency", "plausibility", "fusion"}, names)
}

func TestPolicyFromConfig(t *testing.T) {
	cfg := model.DefaultConfig().Validation
	cfg.RatingTolerance = 0.2

	p := PolicyFromConfig(cfg)

	assert.Equal(t, 0.2, p.RatingTolerance)
	assert.Equal(t, model.DefaultPriceTolerance, p.PriceTolerance)
	assert.Equal(t, 5000.0, p.MaxPlausiblePrice)
}
