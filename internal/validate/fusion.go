package validate

import (
	"context"
	"strconv"

	"github.com/ppiankov/staycheck/internal/heuristic"
	"github.com/ppiankov/staycheck/internal/model"
)

// FusionChecker checks that the narrative makes use of the hotel data:
// available records are not ignored and listed hotels are compared
type FusionChecker struct {
	policy Policy
}

// NewFusionChecker creates a new fusion checker
func NewFusionChecker(policy Policy) *FusionChecker {
	return &FusionChecker{policy: policy}
}

// Name returns the checker name
func (c *FusionChecker) Name() string {
	return "fusion"
}

// Check reports unused data and listing-only answers
func (c *FusionChecker) Check(ctx context.Context, input *Input) []model.Issue {
	var issues []model.Issue
	claim := input.Claim

	if len(input.GroundTruth.Records) > 0 && !claim.HasHotels() && input.RecommendationRequest {
		issues = append(issues, model.Issue{
			Kind:    model.IssueUnusedData,
			Checker: c.Name(),
			Field:   "hotels",
			Claimed: "0",
			Message: strconv.Itoa(len(input.GroundTruth.Records)) + " hotel records were available but none were presented",
		})
	}

	if c.policy.ListingOnlyMinHotels > 0 && len(claim.Hotels) >= c.policy.ListingOnlyMinHotels &&
		!heuristic.HasSynthesis(heuristic.StripListing(claim.Narrative, claim.HotelNames())) {
		issues = append(issues, model.Issue{
			Kind:    model.IssueListingOnly,
			Checker: c.Name(),
			Field:   "narrative",
			Claimed: strconv.Itoa(len(claim.Hotels)) + " hotels",
			Message: "hotels are listed without any comparison or recommendation",
		})
	}

	return issues
}
