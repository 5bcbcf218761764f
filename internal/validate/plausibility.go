package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/staycheck/internal/heuristic"
	"github.com/ppiankov/staycheck/internal/model"
)

// PlausibilityChecker flags values that are possible but suspicious. Its
// findings are advisory.
type PlausibilityChecker struct {
	policy Policy
}

// NewPlausibilityChecker creates a new plausibility checker
func NewPlausibilityChecker(policy Policy) *PlausibilityChecker {
	return &PlausibilityChecker{policy: policy}
}

// Name returns the checker name
func (c *PlausibilityChecker) Name() string {
	return "plausibility"
}

// Check flags prices outside the plausible band, over-precise ratings and
// lists where every hotel shares the same price or rating. Values that the
// ground truth confirms within tolerance are never flagged. Without any
// records it also flags narrative claims that only data could back.
func (c *PlausibilityChecker) Check(ctx context.Context, input *Input) []model.Issue {
	var issues []model.Issue
	var unconfirmed []model.ClaimedHotel

	for _, hotel := range input.Claim.Hotels {
		record, grounded := model.HotelRecord{}, false
		if input.GroundTruth.Available {
			record, grounded = input.GroundTruth.Lookup(hotel.Name)
		}
		priceConfirmed := grounded && hotel.Price != nil && !exceeds(*hotel.Price, record.Price, c.policy.PriceTolerance)
		ratingConfirmed := grounded && hotel.Rating != nil && !exceeds(*hotel.Rating, record.Rating, c.policy.RatingTolerance)

		if !(priceConfirmed && ratingConfirmed) {
			unconfirmed = append(unconfirmed, hotel)
		}

		if hotel.Price != nil && *hotel.Price > 0 && !priceConfirmed {
			p := *hotel.Price
			if p < c.policy.MinPlausiblePrice || p > c.policy.MaxPlausiblePrice {
				issues = append(issues, c.issue(hotel.Name, "price", formatFloat(p),
					fmt.Sprintf("price is outside the plausible range %s-%s",
						formatFloat(c.policy.MinPlausiblePrice), formatFloat(c.policy.MaxPlausiblePrice))))
			}
		}

		if hotel.Rating != nil && !ratingConfirmed && decimals(*hotel.Rating) > c.policy.MaxRatingDecimals {
			issues = append(issues, c.issue(hotel.Name, "rating", formatFloat(*hotel.Rating),
				fmt.Sprintf("rating has more than %d decimal place(s)", c.policy.MaxRatingDecimals)))
		}
	}

	if v, ok := c.uniform(unconfirmed, func(h model.ClaimedHotel) *float64 { return h.Price }); ok {
		issues = append(issues, c.issue("", "price", formatFloat(v), "every listed hotel has the same price"))
	}
	if v, ok := c.uniform(unconfirmed, func(h model.ClaimedHotel) *float64 { return h.Rating }); ok {
		issues = append(issues, c.issue("", "rating", formatFloat(v), "every listed hotel has the same rating"))
	}

	if len(input.GroundTruth.Records) == 0 {
		issues = append(issues, c.unsupported(input.Claim.Narrative)...)
	}

	return issues
}

// unsupported reports phrases that state facts no source data supports
func (c *PlausibilityChecker) unsupported(narrative string) []model.Issue {
	var issues []model.Issue
	var prices []string
	for _, u := range heuristic.UnsupportedClaims(narrative) {
		switch u.Kind {
		case heuristic.UnsupportedOverconfident:
			issues = append(issues, c.issue("", "narrative", u.Phrase,
				"overconfident language without source data to support it"))
		case heuristic.UnsupportedVagueClaim:
			issues = append(issues, c.issue("", "narrative", u.Phrase,
				"superlative claim without source data to support it"))
		case heuristic.UnsupportedPrice:
			prices = append(prices, u.Phrase)
		}
	}
	if len(prices) > 0 {
		issues = append(issues, c.issue("", "narrative", strings.Join(prices, ", "),
			"specific prices mentioned but no source data is available"))
	}
	return issues
}

// uniform reports whether at least UniformValueMinCount hotels carry a value
// and all of them are equal
func (c *PlausibilityChecker) uniform(hotels []model.ClaimedHotel, value func(model.ClaimedHotel) *float64) (float64, bool) {
	if c.policy.UniformValueMinCount <= 0 {
		return 0, false
	}

	var first *float64
	count := 0
	for _, h := range hotels {
		v := value(h)
		if v == nil {
			continue
		}
		if first != nil && *v != *first {
			return 0, false
		}
		first = v
		count++
	}
	if count < c.policy.UniformValueMinCount {
		return 0, false
	}
	return *first, true
}

func (c *PlausibilityChecker) issue(hotel, field, claimed, msg string) model.Issue {
	return model.Issue{
		Kind:     model.IssueImplausible,
		Checker:  c.Name(),
		Field:    field,
		Hotel:    hotel,
		Claimed:  claimed,
		Message:  msg,
		Advisory: true,
	}
}

// decimals counts the digits after the decimal point
func decimals(v float64) int {
	s := formatFloat(v)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
