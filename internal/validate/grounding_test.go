package validate

import (
	"testing"

	"github.com/ppiankov/staycheck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroundingChecker_ExactMatchPasses(t *testing.T) {
	claim := model.Claim{Hotels: []model.ClaimedHotel{
		{Name: "  hotel   AZUR ", Price: f(120), Currency: "$", Rating: f(4.5), ReviewCount: n(812), Address: "Rue de Rivoli"},
	}}

	issues := run(NewGroundingChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: parisTruth()})

	assert.Empty(t, issues)
}

func TestGroundingChecker_PriceMismatch(t *testing.T) {
	claim := model.Claim{Hotels: []model.ClaimedHotel{{Name: "Hotel Azur", Price: f(150)}}}

	issues := run(NewGroundingChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: parisTruth()})

	require.Len(t, issues, 1)
	assert.Equal(t, model.IssueGroundingMismatch, issues[0].Kind)
	assert.Equal(t, "price", issues[0].Field)
	assert.Equal(t, "150", issues[0].Claimed)
	require.NotNil(t, issues[0].GroundTruth)
	assert.Equal(t, "120", *issues[0].GroundTruth)
}

func TestGroundingChecker_PriceToleranceIsZero(t *testing.T) {
	claim := model.Claim{Hotels: []model.ClaimedHotel{{Name: "Hotel Azur", Price: f(120.01)}}}

	issues := run(NewGroundingChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: parisTruth()})

	require.Len(t, issues, 1)
	assert.Equal(t, "price", issues[0].Field)
}

func TestGroundingChecker_RatingTolerance(t *testing.T) {
	tests := []struct {
		rating float64
		want   int
	}{
		{4.5, 0},
		{4.6, 0},
		{4.4, 0},
		{4.7, 1},
		{4.3, 1},
	}

	for _, tt := range tests {
		claim := model.Claim{Hotels: []model.ClaimedHotel{{Name: "Hotel Azur", Rating: f(tt.rating)}}}
		issues := run(NewGroundingChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: parisTruth()})
		assert.Len(t, issues, tt.want, "rating %v", tt.rating)
	}
}

func TestGroundingChecker_UnknownHotel(t *testing.T) {
	claim := model.Claim{Hotels: []model.ClaimedHotel{{Name: "The Imaginary Palace", Price: f(99)}}}

	issues := run(NewGroundingChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: parisTruth()})

	require.Len(t, issues, 1)
	assert.Equal(t, "name", issues[0].Field)
	assert.Equal(t, "hotel not in source data", issues[0].Message)
}

func TestGroundingChecker_CurrencyAndAddress(t *testing.T) {
	claim := model.Claim{Hotels: []model.ClaimedHotel{
		{Name: "Hotel Bleu", Price: f(180), Currency: "EUR", Address: "10 Downing Street"},
	}}

	issues := run(NewGroundingChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: parisTruth()})

	require.Len(t, issues, 2)
	assert.Equal(t, "currency", issues[0].Field)
	assert.Equal(t, "address", issues[1].Field)
}

func TestGroundingChecker_AbsentFieldsAreNotChecked(t *testing.T) {
	claim := model.Claim{Hotels: []model.ClaimedHotel{{Name: "Le Petit Nid"}}}

	issues := run(NewGroundingChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: parisTruth()})

	assert.Empty(t, issues)
}

func TestGroundingChecker_DuplicateGroundTruthUsesFirst(t *testing.T) {
	gt := parisTruth()
	gt.Records = append(gt.Records, model.HotelRecord{Name: "HOTEL AZUR", Price: 300})

	claim := model.Claim{Hotels: []model.ClaimedHotel{{Name: "Hotel Azur", Price: f(120)}}}
	issues := run(NewGroundingChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: gt})

	assert.Empty(t, issues)
}

func TestGroundingChecker_UnavailableGroundTruth(t *testing.T) {
	claim := model.Claim{Hotels: []model.ClaimedHotel{{Name: "The Imaginary Palace", Price: f(99)}}}

	issues := run(NewGroundingChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: model.GroundTruth{}})

	assert.Empty(t, issues)
}

func TestGroundingChecker_AvailableButEmpty(t *testing.T) {
	claim := model.Claim{Hotels: []model.ClaimedHotel{{Name: "Hotel Azur"}, {Name: "Hotel Bleu"}}}

	issues := run(NewGroundingChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: model.GroundTruth{Available: true}})

	assert.Len(t, issues, 2)
}
