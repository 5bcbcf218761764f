package model

// Claim is the structured interpretation of one language-model answer
type Claim struct {
	Narrative string         `json:"narrative"`           // Free-text reply shown to the user
	Reasoning string         `json:"reasoning,omitempty"` // Model's own thought process, never shown
	City      string         `json:"city,omitempty"`
	Hotels    []ClaimedHotel `json:"hotels"`
}

// ClaimedHotel is a hotel as asserted by the model. Every fact is optional;
// an absent field is never treated as a mismatch.
type ClaimedHotel struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Address     string   `json:"address,omitempty"`
	Link        string   `json:"link,omitempty"`
	Type        string   `json:"type,omitempty"`

	// Assigned by the pipeline, never by the model
	DataSource DataSource `json:"data_source"`
	Verified   bool       `json:"verified"`
}

// HasHotels reports whether the claim lists at least one hotel
func (c Claim) HasHotels() bool {
	return len(c.Hotels) > 0
}

// HotelNames returns the claimed hotel names in listing order
func (c Claim) HotelNames() []string {
	names := make([]string, 0, len(c.Hotels))
	for _, h := range c.Hotels {
		names = append(names, h.Name)
	}
	return names
}

// ParseOutcome is the result of interpreting raw model output.
// It is either Structured or PlainText.
type ParseOutcome interface {
	// Claim converts the outcome into a claim. Plain text becomes a
	// narrative-only claim.
	Claim() Claim
	isParseOutcome()
}

// Structured wraps a claim decoded from the structured response format
type Structured struct {
	Value Claim
}

// Claim returns the decoded claim
func (s Structured) Claim() Claim { return s.Value }

func (Structured) isParseOutcome() {}

// PlainText is model output that did not follow the structured format
type PlainText struct {
	Text string
	Err  *ParseError // Why structured decoding failed, for logging only
}

// Claim returns a narrative-only claim
func (p PlainText) Claim() Claim {
	return Claim{Narrative: p.Text}
}

func (PlainText) isParseOutcome() {}
