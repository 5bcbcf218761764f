package validate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/staycheck/internal/model"
)

// GroundingChecker compares each claimed hotel with the ground-truth record
// of the same name
type GroundingChecker struct {
	policy Policy
}

// NewGroundingChecker creates a new grounding checker
func NewGroundingChecker(policy Policy) *GroundingChecker {
	return &GroundingChecker{policy: policy}
}

// Name returns the checker name
func (c *GroundingChecker) Name() string {
	return "grounding"
}

// Check verifies names, currency, price, rating, address and review count.
// Nothing is checked when ground truth is unavailable; the pipeline tags
// those hotels as simulated instead.
func (c *GroundingChecker) Check(ctx context.Context, input *Input) []model.Issue {
	if !input.GroundTruth.Available {
		return nil
	}

	var issues []model.Issue
	for _, hotel := range input.Claim.Hotels {
		if strings.TrimSpace(hotel.Name) == "" {
			continue
		}

		record, ok := input.GroundTruth.Lookup(hotel.Name)
		if !ok {
			issues = append(issues, c.issue(hotel, "name", hotel.Name, nil, "hotel not in source data"))
			continue
		}

		issues = append(issues, c.compare(hotel, record)...)
	}
	return issues
}

func (c *GroundingChecker) compare(hotel model.ClaimedHotel, record model.HotelRecord) []model.Issue {
	var issues []model.Issue

	claimedCurrency := model.NormalizeCurrency(hotel.Currency)
	truthCurrency := model.NormalizeCurrency(record.Currency)
	if claimedCurrency != "" && truthCurrency != "" && claimedCurrency != truthCurrency {
		issues = append(issues, c.issue(hotel, "currency", claimedCurrency, strPtr(truthCurrency),
			"currency differs from source data"))
	}

	// Zero values in a record mean the source did not report the field
	if hotel.Price != nil && record.Price > 0 && exceeds(*hotel.Price, record.Price, c.policy.PriceTolerance) {
		issues = append(issues, c.issue(hotel, "price", formatFloat(*hotel.Price), strPtr(formatFloat(record.Price)),
			"price differs from source data"))
	}

	if hotel.Rating != nil && record.Rating > 0 && exceeds(*hotel.Rating, record.Rating, c.policy.RatingTolerance) {
		issues = append(issues, c.issue(hotel, "rating", formatFloat(*hotel.Rating), strPtr(formatFloat(record.Rating)),
			fmt.Sprintf("rating differs from source data by more than %s", formatFloat(c.policy.RatingTolerance))))
	}

	if hotel.Address != "" && record.Address != "" && !addressMatches(hotel.Address, record.Address) {
		issues = append(issues, c.issue(hotel, "address", hotel.Address, strPtr(record.Address),
			"address does not match source data"))
	}

	if hotel.ReviewCount != nil && record.ReviewCount > 0 && *hotel.ReviewCount != record.ReviewCount {
		issues = append(issues, c.issue(hotel, "review_count", strconv.Itoa(*hotel.ReviewCount), strPtr(strconv.Itoa(record.ReviewCount)),
			"review count differs from source data"))
	}

	return issues
}

func (c *GroundingChecker) issue(hotel model.ClaimedHotel, field, claimed string, truth *string, msg string) model.Issue {
	return model.Issue{
		Kind:        model.IssueGroundingMismatch,
		Checker:     c.Name(),
		Field:       field,
		Hotel:       hotel.Name,
		Claimed:     claimed,
		GroundTruth: truth,
		Message:     msg,
	}
}

// addressMatches accepts either address containing the other, ignoring case
// and spacing
func addressMatches(claimed, truth string) bool {
	a := model.NormalizeName(claimed)
	b := model.NormalizeName(truth)
	return strings.Contains(a, b) || strings.Contains(b, a)
}
