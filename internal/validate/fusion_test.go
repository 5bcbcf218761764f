package validate

import (
	"testing"

	"github.com/ppiankov/staycheck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFusionChecker_UnusedData(t *testing.T) {
	claim := model.Claim{Narrative: "Paris is a beautiful city with many neighbourhoods."}

	issues := run(NewFusionChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: parisTruth(), RecommendationRequest: true})

	require.Len(t, issues, 1)
	assert.Equal(t, model.IssueUnusedData, issues[0].Kind)
}

func TestFusionChecker_UnusedDataAfterCourtesyClosing(t *testing.T) {
	// The parser drops the hotels of a reply ending in a pleasantry; the
	// request still expected them
	claim := model.Claim{Narrative: "Hotel Azur is a great pick, better than anything nearby. Enjoy your stay!"}

	issues := run(NewFusionChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: parisTruth(), RecommendationRequest: true})

	require.Len(t, issues, 1)
	assert.Equal(t, model.IssueUnusedData, issues[0].Kind)
}

func TestFusionChecker_UnusedDataNeedsRequest(t *testing.T) {
	claim := model.Claim{Narrative: "Paris is a beautiful city."}

	issues := run(NewFusionChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: parisTruth()})

	assert.Empty(t, issues)
}

func TestFusionChecker_UnusedDataNeedsRecords(t *testing.T) {
	claim := model.Claim{Narrative: "I could not load hotel data right now."}

	issues := run(NewFusionChecker(DefaultPolicy()), Input{Claim: claim, RecommendationRequest: true})

	assert.Empty(t, issues)
}

func TestFusionChecker_ListingOnly(t *testing.T) {
	claim := model.Claim{
		Narrative: "Here are some hotels in Paris:\n1. Hotel Azur\n2. Hotel Bleu\n3. Le Petit Nid",
		Hotels: []model.ClaimedHotel{
			{Name: "Hotel Azur"}, {Name: "Hotel Bleu"}, {Name: "Le Petit Nid"},
		},
	}

	issues := run(NewFusionChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: parisTruth()})

	require.Len(t, issues, 1)
	assert.Equal(t, model.IssueListingOnly, issues[0].Kind)
}

func TestFusionChecker_SynthesisPasses(t *testing.T) {
	claim := model.Claim{
		Narrative: "Le Petit Nid is cheaper than Hotel Azur, but Hotel Bleu is ideal for couples who want to splurge.",
		Hotels: []model.ClaimedHotel{
			{Name: "Hotel Azur"}, {Name: "Hotel Bleu"}, {Name: "Le Petit Nid"},
		},
	}

	issues := run(NewFusionChecker(DefaultPolicy()), Input{Claim: claim, GroundTruth: parisTruth()})

	assert.Empty(t, issues)
}

func TestFusionChecker_TwoHotelsNeverListingOnly(t *testing.T) {
	claim := model.Claim{
		Narrative: "Hotel Azur\nHotel Bleu",
		Hotels:    []model.ClaimedHotel{{Name: "Hotel Azur"}, {Name: "Hotel Bleu"}},
	}

	issues := run(NewFusionChecker(DefaultPolicy()), Input{Claim: claim})

	assert.Empty(t, issues)
}
