package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ppiankov/staycheck/internal/model"
)

func ptr[T any](v T) *T { return &v }

func sampleResult() *model.TurnResult {
	return &model.TurnResult{
		FinalClaim: model.Claim{
			Narrative: "Hotel A is the best value, Hotel B is closer to the center.",
			City:      "Paris",
			Hotels: []model.ClaimedHotel{
				{
					Name:        "Hotel A",
					Price:       ptr(120.0),
					Currency:    "USD",
					Rating:      ptr(4.5),
					ReviewCount: ptr(900),
					Link:        "https://example.com/a",
					DataSource:  model.DataSourceReal,
					Verified:    true,
				},
				{
					Name:       "Hotel B",
					Price:      ptr(89.5),
					Currency:   "EUR",
					DataSource: model.DataSourceSimulated,
				},
			},
		},
		Validated: true,
		Attempts:  2,
		GroundTruth: model.GroundTruth{
			Available: true,
			Source:    "serpapi",
			Query:     "Paris",
			Records:   []model.HotelRecord{{Name: "Hotel A"}},
		},
		Summary: model.Summary{Index: 82, Confidence: "high"},
	}
}

func TestCards(t *testing.T) {
	cards := Cards(sampleResult())
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}

	a := cards[0]
	if a.Badge != BadgeLive {
		t.Errorf("Expected live badge, got %q", a.Badge)
	}
	if a.Label != "" {
		t.Errorf("Verified hotel should not be labelled, got %q", a.Label)
	}
	if a.Link != "https://example.com/a" {
		t.Errorf("Expected deep link to be kept, got %q", a.Link)
	}

	b := cards[1]
	if b.Badge != BadgeSimulated {
		t.Errorf("Expected simulated badge, got %q", b.Badge)
	}
	if b.Label != UnverifiedLabel {
		t.Errorf("Expected unverified label, got %q", b.Label)
	}
	if !strings.HasPrefix(b.Link, "https://www.google.com/travel/hotels?q=") || !strings.Contains(b.Link, "Paris") {
		t.Errorf("Expected fallback search link with city, got %q", b.Link)
	}
}

func TestCards_MissingDataSourceIsSimulated(t *testing.T) {
	result := sampleResult()
	result.FinalClaim.Hotels = []model.ClaimedHotel{{Name: "Hotel C", Link: "javascript:alert(1)"}}

	cards := Cards(result)
	if len(cards) != 1 {
		t.Fatalf("Expected 1 card, got %d", len(cards))
	}
	if cards[0].Badge != BadgeSimulated {
		t.Errorf("Badge must always be shown, got %q", cards[0].Badge)
	}
	if !strings.HasPrefix(cards[0].Link, "https://www.google.com/travel/hotels") {
		t.Errorf("Expected unsafe link to be replaced, got %q", cards[0].Link)
	}
}

func TestCards_Courtesy(t *testing.T) {
	result := sampleResult()
	result.FinalClaim.Narrative = "You're welcome! Enjoy your stay in Paris."

	cards := Cards(result)
	if cards == nil || len(cards) != 0 {
		t.Errorf("Expected empty card list for courtesy turn, got %v", cards)
	}
}

func TestCards_Nil(t *testing.T) {
	if Cards(nil) != nil {
		t.Error("Expected nil cards for nil result")
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	if err := Text(&buf, sampleResult(), false); err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	out := buf.String()

	expected := []string{
		"Hotel A is the best value",
		"1. Hotel A  [Live data]",
		"$120/night",
		"★ 4.5 (900 reviews)",
		"2. Hotel B  [Simulated data] (Unverified)",
		"€89.50/night",
	}
	for _, s := range expected {
		if !strings.Contains(out, s) {
			t.Errorf("Expected output to contain %q\n%s", s, out)
		}
	}
	if strings.Contains(out, "confidence") {
		t.Error("Details should only be shown in verbose mode")
	}
}

func TestText_DisclosureAndDetails(t *testing.T) {
	result := sampleResult()
	result.Validated = false
	result.Attempts = 3
	result.Disclosure = ptr("Some details could not be verified against live data.")
	result.GroundTruth.Available = false
	result.Report = model.Report{Issues: []model.Issue{{
		Kind:    model.IssueDuplicate,
		Hotel:   "Hotel A",
		Field:   "name",
		Message: "listed twice",
	}}}

	var buf bytes.Buffer
	if err := Text(&buf, result, true); err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	out := buf.String()

	expected := []string{
		"⚠ Some details could not be verified",
		"not validated after 3 attempt(s)",
		"source data: unavailable",
		"[duplicate] Hotel A (name): listed twice",
	}
	for _, s := range expected {
		if !strings.Contains(out, s) {
			t.Errorf("Expected output to contain %q\n%s", s, out)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price    float64
		currency string
		want     string
	}{
		{120, "USD", "$120"},
		{120, "", "$120"},
		{99.5, "eur", "€99.50"},
		{80, "GBP", "£80"},
		{15000, "JPY", "15000 JPY"},
	}
	for _, tt := range tests {
		if got := formatPrice(tt.price, tt.currency); got != tt.want {
			t.Errorf("formatPrice(%v, %q) = %q, want %q", tt.price, tt.currency, got, tt.want)
		}
	}
}
