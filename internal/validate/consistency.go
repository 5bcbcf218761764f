package validate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/staycheck/internal/heuristic"
	"github.com/ppiankov/staycheck/internal/model"
)

// ConsistencyChecker finds internal contradictions in a claim without
// looking at ground truth
type ConsistencyChecker struct {
	policy Policy
}

// NewConsistencyChecker creates a new consistency checker
func NewConsistencyChecker(policy Policy) *ConsistencyChecker {
	return &ConsistencyChecker{policy: policy}
}

// Name returns the checker name
func (c *ConsistencyChecker) Name() string {
	return "consistency"
}

// Check reports duplicates, out-of-domain values and ranking statements
// the listed values contradict
func (c *ConsistencyChecker) Check(ctx context.Context, input *Input) []model.Issue {
	var issues []model.Issue
	seen := make(map[string]bool)

	for _, hotel := range input.Claim.Hotels {
		key := model.NormalizeName(hotel.Name)
		if key == "" {
			issues = append(issues, c.issue(model.IssueInvalidValue, hotel, "name", "", "hotel has no name"))
			continue
		}
		if seen[key] {
			issues = append(issues, c.issue(model.IssueDuplicate, hotel, "name", hotel.Name, "hotel is listed more than once"))
		}
		seen[key] = true

		if hotel.Price != nil && *hotel.Price <= 0 {
			issues = append(issues, c.issue(model.IssueInvalidValue, hotel, "price", formatFloat(*hotel.Price), "price must be positive"))
		}
		if hotel.Rating != nil && (*hotel.Rating < 0 || *hotel.Rating > 5) {
			issues = append(issues, c.issue(model.IssueInvalidValue, hotel, "rating", formatFloat(*hotel.Rating), "rating must be between 0 and 5"))
		}
		if hotel.ReviewCount != nil && *hotel.ReviewCount < 0 {
			issues = append(issues, c.issue(model.IssueInvalidValue, hotel, "review_count", strconv.Itoa(*hotel.ReviewCount), "review count must not be negative"))
		}
	}

	issues = append(issues, c.checkRanking(input.Claim)...)
	return issues
}

// checkRanking verifies that the hotel a superlative refers to holds the
// extreme value among the listed hotels
func (c *ConsistencyChecker) checkRanking(claim model.Claim) []model.Issue {
	if len(claim.Hotels) < 2 {
		return nil
	}

	var issues []model.Issue
	names := claim.HotelNames()
	reported := make(map[string]bool)

	for _, a := range heuristic.RankingAssertions(claim.Narrative) {
		subject := a.Subject(names)
		if subject < 0 {
			subject = 0
		}
		key := string(a.Kind) + "|" + strconv.Itoa(subject)
		if reported[key] {
			continue
		}

		hotel := claim.Hotels[subject]
		var winner *model.ClaimedHotel
		var msg string

		switch a.Kind {
		case heuristic.RankLowestPrice:
			winner = extreme(claim.Hotels, func(h model.ClaimedHotel) *float64 { return h.Price }, func(x, y float64) bool { return x < y })
			if winner == nil || hotel.Price == nil || *hotel.Price <= *winner.Price+c.policy.PriceTolerance+floatEps {
				continue
			}
			msg = fmt.Sprintf("narrative calls it %q but %s is listed at a lower price (%s)", a.Keyword, winner.Name, formatFloat(*winner.Price))

		case heuristic.RankHighestRating:
			winner = extreme(claim.Hotels, func(h model.ClaimedHotel) *float64 { return h.Rating }, func(x, y float64) bool { return x > y })
			if winner == nil || hotel.Rating == nil || *hotel.Rating >= *winner.Rating-floatEps {
				continue
			}
			msg = fmt.Sprintf("narrative calls it %q but %s has a higher rating (%s)", a.Keyword, winner.Name, formatFloat(*winner.Rating))
		}

		reported[key] = true
		issues = append(issues, c.issue(model.IssueInvalidValue, hotel, "narrative", a.Keyword, msg))
	}
	return issues
}

// extreme returns the hotel with the best value according to better, or nil
// when fewer than two hotels carry a value
func extreme(hotels []model.ClaimedHotel, value func(model.ClaimedHotel) *float64, better func(a, b float64) bool) *model.ClaimedHotel {
	var best *model.ClaimedHotel
	count := 0
	for i := range hotels {
		v := value(hotels[i])
		if v == nil {
			continue
		}
		count++
		if best == nil || better(*v, *value(*best)) {
			best = &hotels[i]
		}
	}
	if count < 2 {
		return nil
	}
	return best
}

func (c *ConsistencyChecker) issue(kind model.IssueKind, hotel model.ClaimedHotel, field, claimed, msg string) model.Issue {
	name := strings.TrimSpace(hotel.Name)
	return model.Issue{
		Kind:    kind,
		Checker: c.Name(),
		Field:   field,
		Hotel:   name,
		Claimed: claimed,
		Message: msg,
	}
}
