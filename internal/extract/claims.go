package extract

import (
	"encoding/json"
	"strings"

	"github.com/ppiankov/staycheck/internal/heuristic"
	"github.com/ppiankov/staycheck/internal/model"
)

// ClaimExtractor turns raw model output into claims
type ClaimExtractor struct{}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{}
}

// wireResponse is the structured answer format the model is asked for
type wireResponse struct {
	ThoughtProcess string      `json:"thought_process"`
	Response       *string     `json:"response_to_user"`
	Claims         *wireClaims `json:"claims"`
}

type wireClaims struct {
	City      string      `json:"city"`
	TopHotels []wireHotel `json:"top_hotels"`
}

type wireHotel struct {
	Name     string     `json:"name"`
	Price    wireNumber `json:"price"`
	Currency string     `json:"currency"`
	Rating   wireNumber `json:"rating"`
	Reviews  wireNumber `json:"reviews"`
	Address  string     `json:"address"`
	Link     string     `json:"link"`
	Type     string     `json:"type"`
}

// Parse interprets raw model output. Output that is not a structured
// response becomes PlainText; Parse never fails.
func (e *ClaimExtractor) Parse(raw string) model.ParseOutcome {
	text := strings.TrimSpace(raw)
	if text == "" {
		return model.PlainText{Text: "", Err: &model.ParseError{Reason: "empty output"}}
	}

	body, ok := jsonBody(text)
	if !ok {
		return model.PlainText{Text: text, Err: &model.ParseError{Reason: "no JSON object"}}
	}

	var resp wireResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return model.PlainText{Text: text, Err: &model.ParseError{Reason: "invalid JSON", Err: err}}
	}
	if resp.Response == nil {
		return model.PlainText{Text: text, Err: &model.ParseError{Reason: "missing response_to_user"}}
	}

	claim := model.Claim{
		Reasoning: strings.TrimSpace(resp.ThoughtProcess),
		Narrative: strings.TrimSpace(*resp.Response),
	}
	if resp.Claims != nil {
		claim.City = strings.TrimSpace(resp.Claims.City)
		for _, h := range resp.Claims.TopHotels {
			claim.Hotels = append(claim.Hotels, h.toClaimed())
		}
	}

	// Pleasantries never carry hotel cards
	if heuristic.IsCourtesy(claim.Narrative) {
		claim.Hotels = nil
	}

	return model.Structured{Value: claim}
}

// ParseClaim is a convenience wrapper returning the claim directly
func (e *ClaimExtractor) ParseClaim(raw string) model.Claim {
	return e.Parse(raw).Claim()
}

func (h wireHotel) toClaimed() model.ClaimedHotel {
	claimed := model.ClaimedHotel{
		Name:     strings.TrimSpace(h.Name),
		Price:    h.Price.Value,
		Currency: model.NormalizeCurrency(h.Currency),
		Rating:   h.Rating.Value,
		Address:  strings.TrimSpace(h.Address),
		Link:     strings.TrimSpace(h.Link),
		Type:     strings.TrimSpace(h.Type),
	}
	if claimed.Currency == "" && h.Price.Symbol != "" {
		claimed.Currency = model.NormalizeCurrency(h.Price.Symbol)
	}
	if h.Reviews.Value != nil {
		n := int(*h.Reviews.Value)
		claimed.ReviewCount = &n
	}
	return claimed
}

// jsonBody strips markdown fences and surrounding prose from a JSON object
func jsonBody(text string) (string, bool) {
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimPrefix(text, "json")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
