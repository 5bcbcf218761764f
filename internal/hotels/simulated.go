package hotels

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/staycheck/internal/model"
)

// SimulatedClient returns a deterministic set of mock hotels per city.
// Every record is tagged simulated.
type SimulatedClient struct{}

// NewSimulatedClient creates a simulated client
func NewSimulatedClient() *SimulatedClient {
	return &SimulatedClient{}
}

// Name returns the client identifier
func (c *SimulatedClient) Name() string {
	return "simulated"
}

// Fetch never fails; the same city always yields the same hotels
func (c *SimulatedClient) Fetch(ctx context.Context, query string) ([]model.HotelRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, &model.FetchError{Query: query, Code: model.CodeCancelled, Err: err}
	}

	city := strings.TrimSpace(query)
	if city == "" {
		city = "City"
	}
	base := simulatedPriceBase(city)

	records := []model.HotelRecord{
		{Name: fmt.Sprintf("The %s Grand Royale", city), Price: base, Rating: 4.5, ReviewCount: 1200, Type: "Luxury", Address: "Downtown " + city},
		{Name: fmt.Sprintf("%s Business Boutique", city), Price: base - 70, Rating: 4.2, ReviewCount: 850, Type: "Business", Address: "City Center, " + city},
		{Name: fmt.Sprintf("%s Comfort Inn", city), Price: base - 100, Rating: 4.0, ReviewCount: 650, Type: "Mid-range", Address: "Near Airport, " + city},
	}
	for i := range records {
		records[i].Currency = "USD"
		records[i].Link = FallbackLink(records[i].Name, city)
		records[i].DataSource = model.DataSourceSimulated
	}
	return records, nil
}

// simulatedPriceBase derives a stable nightly rate between 150 and 340
func simulatedPriceBase(city string) float64 {
	sum := 0
	for _, r := range city {
		sum += int(r)
	}
	return float64(150 + (sum%20)*10)
}
