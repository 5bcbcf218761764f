package hotels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ppiankov/staycheck/internal/model"
	"github.com/ppiankov/staycheck/internal/util"
	"github.com/ppiankov/staycheck/internal/worker"
)

const defaultSerpAPIURL = "https://serpapi.com/search.json"

// SerpAPIClient queries the Google Hotels engine through SerpAPI
type SerpAPIClient struct {
	apiKey     string
	baseURL    string
	maxResults int
	currency   string
	adults     int
	httpClient *http.Client
	limiter    *worker.Limiter
	now        func() time.Time
}

// NewSerpAPIClient creates a SerpAPI client. limiter may be nil.
func NewSerpAPIClient(cfg model.HotelsConfig, httpClient *http.Client, limiter *worker.Limiter) *SerpAPIClient {
	c := &SerpAPIClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		maxResults: cfg.MaxResults,
		currency:   model.NormalizeCurrency(cfg.Currency),
		adults:     cfg.Adults,
		httpClient: httpClient,
		limiter:    limiter,
		now:        time.Now,
	}
	if c.baseURL == "" {
		c.baseURL = defaultSerpAPIURL
	}
	if c.maxResults <= 0 {
		c.maxResults = 5
	}
	if c.currency == "" {
		c.currency = "USD"
	}
	if c.adults <= 0 {
		c.adults = 2
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	return c
}

// Name returns the client identifier
func (c *SerpAPIClient) Name() string {
	return "serpapi"
}

// serpResponse is the subset of the Google Hotels payload we read
type serpResponse struct {
	Error      string         `json:"error"`
	Properties []serpProperty `json:"properties"`
	Ads        []serpProperty `json:"ads"`
}

type serpProperty struct {
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Link          string    `json:"link"`
	Website       string    `json:"website"`
	BookingLink   string    `json:"booking_link"`
	Address       string    `json:"address"`
	FullAddress   string    `json:"full_address"`
	Neighborhood  string    `json:"neighborhood"`
	District      string    `json:"district"`
	Location      *serpLoc  `json:"location"`
	OverallRating float64   `json:"overall_rating"`
	Reviews       int       `json:"reviews"`
	RatePerNight  *serpRate `json:"rate_per_night"`
	TotalRate     *serpRate `json:"total_rate"`
	// Ads carry a flat price
	ExtractedPrice *float64        `json:"extracted_price"`
	Price          json.RawMessage `json:"price"`
}

type serpLoc struct {
	Address string `json:"address"`
}

type serpRate struct {
	ExtractedLowest *float64 `json:"extracted_lowest"`
}

// Fetch returns the top properties for "hotels in <query>", followed by
// priced sponsored results until MaxResults is reached
func (c *SerpAPIClient) Fetch(ctx context.Context, query string) ([]model.HotelRecord, error) {
	city := strings.TrimSpace(query)
	if city == "" {
		return nil, &model.FetchError{Query: query, Code: model.CodeBadResponse, Err: errors.New("empty query")}
	}

	reqURL, err := c.requestURL(city)
	if err != nil {
		return nil, &model.FetchError{Query: query, Code: model.CodeBadResponse, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, reqURL); err != nil {
			return nil, c.transportError(ctx, query, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &model.FetchError{Query: query, Code: model.CodeBadResponse, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, query, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, c.transportError(ctx, query, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(query, resp.StatusCode, body)
	}

	var payload serpResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &model.FetchError{Query: query, Code: model.CodeBadResponse, Err: fmt.Errorf("decode response: %w", err)}
	}
	if payload.Error != "" {
		return nil, &model.FetchError{Query: query, Code: model.CodeBadResponse, Err: errors.New(payload.Error)}
	}

	records := c.records(payload, city)
	if len(records) == 0 {
		return nil, &model.FetchError{Query: query, Code: model.CodeEmpty, Err: errors.New("no hotels in response")}
	}
	return records, nil
}

func (c *SerpAPIClient) requestURL(city string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	// The engine requires dates; default to a one-night stay from tomorrow
	checkIn := c.now().AddDate(0, 0, 1)
	q := u.Query()
	q.Set("engine", "google_hotels")
	q.Set("q", "hotels in "+city)
	q.Set("check_in_date", checkIn.Format("2006-01-02"))
	q.Set("check_out_date", checkIn.AddDate(0, 0, 1).Format("2006-01-02"))
	q.Set("adults", strconv.Itoa(c.adults))
	q.Set("currency", c.currency)
	q.Set("gl", "us")
	q.Set("hl", "en")
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *SerpAPIClient) records(payload serpResponse, city string) []model.HotelRecord {
	records := make([]model.HotelRecord, 0, c.maxResults)
	for _, p := range payload.Properties {
		if len(records) == c.maxResults {
			return records
		}
		if p.Name == "" {
			continue
		}
		records = append(records, c.record(p, city, titleCase(p.Type)))
	}
	for _, ad := range payload.Ads {
		if len(records) == c.maxResults {
			break
		}
		// Unpriced ads carry nothing to verify against
		if ad.Name == "" || ad.ExtractedPrice == nil || *ad.ExtractedPrice <= 0 {
			continue
		}
		records = append(records, c.record(ad, city, "Sponsored"))
	}
	return records
}

func (c *SerpAPIClient) record(p serpProperty, city, kind string) model.HotelRecord {
	if kind == "" {
		kind = "Hotel"
	}
	link := firstNonEmpty(p.Link, p.Website, p.BookingLink)
	if link == "" {
		link = FallbackLink(p.Name, city)
	}
	return model.HotelRecord{
		Name:        strings.TrimSpace(p.Name),
		Price:       propertyPrice(p),
		Currency:    c.currency,
		Rating:      p.OverallRating,
		ReviewCount: p.Reviews,
		Address:     propertyAddress(p, city),
		Link:        link,
		Type:        kind,
		DataSource:  model.DataSourceReal,
	}
}

// propertyPrice returns the nightly rate, 0 when the listing has none
func propertyPrice(p serpProperty) float64 {
	switch {
	case p.RatePerNight != nil && p.RatePerNight.ExtractedLowest != nil:
		return *p.RatePerNight.ExtractedLowest
	case p.TotalRate != nil && p.TotalRate.ExtractedLowest != nil:
		return *p.TotalRate.ExtractedLowest
	case p.ExtractedPrice != nil:
		return *p.ExtractedPrice
	}

	if len(p.Price) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(p.Price, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(p.Price, &s); err == nil {
		s = strings.NewReplacer("$", "", ",", "", "€", "", "£", "").Replace(s)
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v
		}
	}
	return 0
}

func propertyAddress(p serpProperty, city string) string {
	var loc string
	if p.Location != nil {
		loc = p.Location.Address
	}
	if addr := firstNonEmpty(p.Address, p.FullAddress, loc, p.Neighborhood, p.District); addr != "" {
		return addr
	}
	return city
}

func (c *SerpAPIClient) transportError(ctx context.Context, query string, err error) *model.FetchError {
	fe := &model.FetchError{Query: query, Code: model.CodeUnavailable, Retryable: true, Err: err}
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		fe.Code, fe.Retryable = model.CodeCancelled, false
	case util.IsTimeout(err):
		fe.Code = model.CodeTimeout
	}
	return fe
}

func statusError(query string, status int, body []byte) *model.FetchError {
	msg := strings.TrimSpace(string(body))
	var payload serpResponse
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	err := fmt.Errorf("unexpected status %d: %s", status, msg)

	switch {
	case status == http.StatusTooManyRequests:
		return &model.FetchError{Query: query, Code: model.CodeRateLimited, Retryable: true, Err: err}
	case status >= 500:
		return &model.FetchError{Query: query, Code: model.CodeUnavailable, Retryable: true, Err: err}
	default:
		return &model.FetchError{Query: query, Code: model.CodeBadResponse, Err: err}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		words[i] = string(unicode.ToUpper(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}
