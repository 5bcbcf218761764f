package score

import (
	"fmt"

	"github.com/ppiankov/staycheck/internal/model"
)

// Input is everything the scorer looks at for one finished turn
type Input struct {
	Claim       model.Claim
	Report      model.Report
	GroundTruth model.GroundTruth
	Attempts    int
	Validated   bool
}

// Scorer turns the final validation report into a transparent summary
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate scores the turn. The index never feeds back into the loop.
func (s *Scorer) Calculate(in Input) model.Summary {
	counts := in.Report.CountByKind()
	var signals []model.Signal

	// 1. Grounding (0-40 points)
	groundingScore, groundingSignal := s.calculateGrounding(in, counts)
	signals = append(signals, groundingSignal)

	// 2. Consistency (0-20 points)
	consistencyScore, consistencySignal := s.calculateConsistency(counts)
	signals = append(signals, consistencySignal)

	// 3. Plausibility (0-10 points)
	plausibilityScore, plausibilitySignal := s.calculatePlausibility(counts)
	signals = append(signals, plausibilitySignal)

	// 4. Fusion (0-20 points)
	fusionScore, fusionSignal := s.calculateFusion(in, counts)
	signals = append(signals, fusionSignal)

	// 5. Correction effort (0-10 points)
	correctionScore, correctionSignal := s.calculateCorrection(in)
	signals = append(signals, correctionSignal)

	total := groundingScore + consistencyScore + plausibilityScore + fusionScore*20/100 + correctionScore

	byKind := make(map[string]int, len(counts))
	for kind, n := range counts {
		byKind[string(kind)] = n
	}

	return model.Summary{
		Index:       total,
		Confidence:  s.determineConfidence(total, in),
		FusionScore: fusionScore,
		Grade:       fusionGrade(fusionScore),
		Signals:     signals,
		Counts:      byKind,
	}
}

// calculateGrounding scores the share of claimed hotels confirmed by source data
func (s *Scorer) calculateGrounding(in Input, counts map[model.IssueKind]int) (int, model.Signal) {
	hotels := len(in.Claim.Hotels)
	if hotels == 0 {
		return 40, model.Signal{
			Type:        model.SignalGrounding,
			Severity:    model.SeverityInfo,
			Description: "No hotels claimed",
			Data:        map[string]interface{}{"hotels": 0, "score": 40},
		}
	}

	if !in.GroundTruth.Available {
		return 20, model.Signal{
			Type:        model.SignalGrounding,
			Severity:    model.SeverityWarning,
			Description: "Source data unavailable, hotels could not be verified",
			Data:        map[string]interface{}{"hotels": hotels, "score": 20},
		}
	}

	mismatched := make(map[string]bool)
	for _, issue := range in.Report.Issues {
		if issue.Kind == model.IssueGroundingMismatch && issue.Hotel != "" {
			mismatched[model.NormalizeName(issue.Hotel)] = true
		}
	}

	grounded := 0
	for _, h := range in.Claim.Hotels {
		if _, ok := in.GroundTruth.Lookup(h.Name); ok && !mismatched[model.NormalizeName(h.Name)] {
			grounded++
		}
	}

	ratio := float64(grounded) / float64(hotels)
	score := int(ratio * 40)

	severity := model.SeverityInfo
	if counts[model.IssueGroundingMismatch] > 0 {
		severity = model.SeverityCritical
	}

	return score, model.Signal{
		Type:        model.SignalGrounding,
		Severity:    severity,
		Description: fmt.Sprintf("Grounded hotels: %d/%d", grounded, hotels),
		Data: map[string]interface{}{
			"hotels":     hotels,
			"grounded":   grounded,
			"mismatches": counts[model.IssueGroundingMismatch],
			"ratio":      ratio,
			"score":      score,
			"formula":    "grounded_hotels / claimed_hotels * 40",
		},
	}
}

// calculateConsistency deducts 10 points per contradiction
func (s *Scorer) calculateConsistency(counts map[model.IssueKind]int) (int, model.Signal) {
	issues := counts[model.IssueDuplicate] + counts[model.IssueInvalidValue]
	score := max(20-issues*10, 0)

	severity := model.SeverityInfo
	if issues > 0 {
		severity = model.SeverityCritical
	}

	return score, model.Signal{
		Type:        model.SignalConsistency,
		Severity:    severity,
		Description: fmt.Sprintf("Internal contradictions: %d", issues),
		Data: map[string]interface{}{
			"duplicates":     counts[model.IssueDuplicate],
			"invalid_values": counts[model.IssueInvalidValue],
			"score":          score,
			"formula":        "20 - min(contradictions * 10, 20)",
		},
	}
}

// calculatePlausibility deducts 5 points per advisory concern
func (s *Scorer) calculatePlausibility(counts map[model.IssueKind]int) (int, model.Signal) {
	concerns := counts[model.IssueImplausible]
	score := max(10-concerns*5, 0)

	severity := model.SeverityInfo
	if concerns > 0 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalPlausibility,
		Severity:    severity,
		Description: fmt.Sprintf("Plausibility concerns: %d", concerns),
		Data: map[string]interface{}{
			"concerns": concerns,
			"score":    score,
			"formula":  "10 - min(concerns * 5, 10)",
		},
	}
}

// calculateFusion returns the fusion quality score (0-100)
func (s *Scorer) calculateFusion(in Input, counts map[model.IssueKind]int) (int, model.Signal) {
	unused := counts[model.IssueUnusedData]
	listing := counts[model.IssueListingOnly]

	score := 100
	if unused > 0 {
		score -= 30
	}
	if listing > 0 {
		score -= 20
	}
	score = max(score-(unused+listing)*5, 0)

	severity := model.SeverityInfo
	switch {
	case unused > 0:
		severity = model.SeverityCritical
	case listing > 0:
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalFusion,
		Severity:    severity,
		Description: fmt.Sprintf("Fusion quality: %s (%d/100)", fusionGrade(score), score),
		Data: map[string]interface{}{
			"unused_data":  unused,
			"listing_only": listing,
			"records":      len(in.GroundTruth.Records),
			"score":        score,
			"formula":      "100 - 30*unused_data - 20*listing_only - 5*fusion_issues",
		},
	}
}

// calculateCorrection rewards answers that needed fewer drafts
func (s *Scorer) calculateCorrection(in Input) (int, model.Signal) {
	score := 0
	severity := model.SeverityCritical
	description := fmt.Sprintf("Retries exhausted after %d attempts", in.Attempts)

	if in.Validated {
		score = max(10-(in.Attempts-1)*5, 0)
		severity = model.SeverityInfo
		description = fmt.Sprintf("Accepted on attempt %d", in.Attempts)
		if in.Attempts > 1 {
			severity = model.SeverityWarning
		}
	}

	return score, model.Signal{
		Type:        model.SignalCorrection,
		Severity:    severity,
		Description: description,
		Data: map[string]interface{}{
			"attempts":  in.Attempts,
			"validated": in.Validated,
			"score":     score,
			"formula":   "validated ? 10 - (attempts-1) * 5 : 0",
		},
	}
}

// determineConfidence determines the confidence level based on the score
func (s *Scorer) determineConfidence(score int, in Input) string {
	if len(in.Report.Blocking()) > 0 {
		return "low"
	}

	// Unverifiable data caps confidence
	if in.Claim.HasHotels() && (!in.GroundTruth.Available || simulated(in.GroundTruth)) {
		if score >= 60 {
			return "medium"
		}
		return "low"
	}

	if score >= 80 {
		return "high"
	} else if score >= 60 {
		return "medium"
	}
	return "low"
}

func simulated(gt model.GroundTruth) bool {
	for _, r := range gt.Records {
		if r.DataSource == model.DataSourceSimulated {
			return true
		}
	}
	return false
}

func fusionGrade(score int) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 70:
		return "good"
	default:
		return "needs improvement"
	}
}
