package model

// DataSource records where a hotel record came from
type DataSource string

const (
	DataSourceReal      DataSource = "real"      // Returned by the live hotel-data API
	DataSourceSimulated DataSource = "simulated" // Mock data or unverifiable model output
)

// HotelRecord is one ground-truth hotel returned by the hotel-data client.
// Records are read-only for the duration of a turn.
type HotelRecord struct {
	Name        string     `json:"name"`
	Price       float64    `json:"price"`                  // Nightly rate in Currency
	Currency    string     `json:"currency"`               // ISO 4217 code
	Rating      float64    `json:"rating"`                 // 0-5
	ReviewCount int        `json:"review_count,omitempty"` // Number of reviews
	Address     string     `json:"address,omitempty"`
	Link        string     `json:"link,omitempty"` // Deep link, may be empty
	Type        string     `json:"type,omitempty"` // e.g. "Hotel", "Sponsored"
	DataSource  DataSource `json:"data_source"`
}

// GroundTruth is the set of hotel records a claim is verified against
type GroundTruth struct {
	Records   []HotelRecord `json:"records"`
	Available bool          `json:"available"`        // False when the fetch failed
	Source    string        `json:"source,omitempty"` // Client name (serpapi, simulated)
	Query     string        `json:"query,omitempty"`
}

// Lookup returns the first record whose normalized name matches.
// Duplicate names in the ground truth resolve to the first occurrence.
func (g GroundTruth) Lookup(name string) (HotelRecord, bool) {
	key := NormalizeName(name)
	if key == "" {
		return HotelRecord{}, false
	}
	for _, r := range g.Records {
		if NormalizeName(r.Name) == key {
			return r, true
		}
	}
	return HotelRecord{}, false
}
