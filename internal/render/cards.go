// Package render turns turn results into hotel cards and terminal text
package render

import (
	"strings"

	"github.com/ppiankov/staycheck/internal/heuristic"
	"github.com/ppiankov/staycheck/internal/hotels"
	"github.com/ppiankov/staycheck/internal/model"
)

// Badge texts shown on every card
const (
	BadgeLive      = "Live data"
	BadgeSimulated = "Simulated data"

	UnverifiedLabel = "Unverified"
)

// Card is one hotel as presented to the user
type Card struct {
	Name        string           `json:"name"`
	Price       *float64         `json:"price,omitempty"`
	Currency    string           `json:"currency,omitempty"`
	Rating      *float64         `json:"rating,omitempty"`
	ReviewCount *int             `json:"review_count,omitempty"`
	Address     string           `json:"address,omitempty"`
	Type        string           `json:"type,omitempty"`
	Link        string           `json:"link"`
	DataSource  model.DataSource `json:"data_source"`
	Badge       string           `json:"badge"`
	Verified    bool             `json:"verified"`
	Label       string           `json:"label,omitempty"` // Set on unverified hotels
}

// Cards builds one card per claimed hotel. Courtesy turns get no cards even
// if the model listed hotels again.
func Cards(result *model.TurnResult) []Card {
	if result == nil {
		return nil
	}
	claim := result.FinalClaim
	if !claim.HasHotels() || heuristic.IsCourtesy(claim.Narrative) {
		return []Card{}
	}

	city := claim.City
	if city == "" {
		city = result.GroundTruth.Query
	}

	cards := make([]Card, 0, len(claim.Hotels))
	for _, h := range claim.Hotels {
		cards = append(cards, newCard(h, city))
	}
	return cards
}

func newCard(h model.ClaimedHotel, city string) Card {
	source := h.DataSource
	if source == "" {
		source = model.DataSourceSimulated
	}

	card := Card{
		Name:        h.Name,
		Price:       h.Price,
		Currency:    h.Currency,
		Rating:      h.Rating,
		ReviewCount: h.ReviewCount,
		Address:     h.Address,
		Type:        h.Type,
		Link:        strings.TrimSpace(h.Link),
		DataSource:  source,
		Badge:       badge(source),
		Verified:    h.Verified,
	}
	if !validLink(card.Link) {
		card.Link = hotels.FallbackLink(h.Name, city)
	}
	if !h.Verified {
		card.Label = UnverifiedLabel
	}
	return card
}

func badge(source model.DataSource) string {
	if source == model.DataSourceReal {
		return BadgeLive
	}
	return BadgeSimulated
}

func validLink(link string) bool {
	return strings.HasPrefix(link, "https://") || strings.HasPrefix(link, "http://")
}
