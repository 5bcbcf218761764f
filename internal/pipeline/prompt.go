package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/staycheck/internal/model"
)

// systemPrompt carries the truth, fusion and formatting rules. %s is today's date.
const systemPrompt = `You are a hotel booking assistant. Today is %s.

TRUTH RULES
- Hotel names, prices, currencies, ratings, review counts and addresses must come from the SOURCE DATA block of the user's message, copied exactly.
- Never invent a hotel or a value. Leave out any fact the source data does not give.
- When source data is unavailable, say so plainly and do not present any hotel as verified.
- Superlatives ("cheapest", "best rated") must agree with the values you list.
- List each hotel once.

FUSION RULES
- Do not just list hotels. Compare them, explain trade-offs (price against rating and review count) and recommend options for different priorities.
- Start with the comparison, then list the hotels.
- When the user is thanking you, saying goodbye or chatting, answer briefly and return an empty top_hotels array.

FORMATTING RULES
- Plain text only in response_to_user: no markdown, no links, no URLs, no addresses.
- List hotels as:
  1. Hotel Name
  Price: $X/night
  Rating: X.X (N reviews)

OUTPUT
Return a single JSON object:
{
  "thought_process": "intent, data used, synthesis plan",
  "response_to_user": "the reply shown to the user",
  "claims": {
    "city": "city name",
    "top_hotels": [
      {"name": "exact name from source data", "price": 0, "currency": "USD", "rating": 0.0, "reviews": 0, "address": "", "type": "", "link": ""}
    ]
  }
}`

// SystemPrompt returns the system prompt for the given day
func SystemPrompt(now time.Time) string {
	return fmt.Sprintf(systemPrompt, now.Format("2006-01-02"))
}

// promptRecord is the model-facing view of a hotel record
type promptRecord struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price,omitempty"`
	Currency string  `json:"currency,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
	Reviews  int     `json:"reviews,omitempty"`
	Address  string  `json:"address,omitempty"`
	Type     string  `json:"type,omitempty"`
	Link     string  `json:"link,omitempty"`
}

// TurnPrompt embeds the ground truth in the user's message
func TurnPrompt(message string, city string, gt model.GroundTruth) string {
	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\n\n")

	switch {
	case city == "":
		b.WriteString("SOURCE DATA: no destination identified, no hotel data was fetched.")
	case !gt.Available:
		fmt.Fprintf(&b, "SOURCE DATA: live hotel data for %s is unavailable right now. Do not present any hotel facts as verified.", city)
	case len(gt.Records) == 0:
		fmt.Fprintf(&b, "SOURCE DATA: the hotel search for %s returned no results.", city)
	default:
		fmt.Fprintf(&b, "SOURCE DATA for %s (%d hotels):\n", city, len(gt.Records))
		b.WriteString(recordsJSON(gt.Records))
	}
	return b.String()
}

func recordsJSON(records []model.HotelRecord) string {
	view := make([]promptRecord, 0, len(records))
	for _, r := range records {
		view = append(view, promptRecord{
			Name:     r.Name,
			Price:    r.Price,
			Currency: r.Currency,
			Rating:   r.Rating,
			Reviews:  r.ReviewCount,
			Address:  r.Address,
			Type:     r.Type,
			Link:     r.Link,
		})
	}
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		// Plain structs always marshal
		return "[]"
	}
	return string(data)
}

// CorrectionPrompt enumerates every issue of the previous draft and asks
// for a complete corrected response
func CorrectionPrompt(report model.Report, gt model.GroundTruth, attempt, maxAttempts int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your previous response failed verification with %d issue(s):\n", len(report.Issues))
	for i, issue := range report.Issues {
		fmt.Fprintf(&b, "%d. %s\n", i+1, describeIssue(issue))
	}

	b.WriteString("\nReissue the COMPLETE response in the same JSON format. ")
	b.WriteString("Do not describe the changes and do not reuse values that were flagged. ")
	if gt.Available && len(gt.Records) > 0 {
		b.WriteString("Use only hotels and values from this source data:\n")
		b.WriteString(recordsJSON(gt.Records))
	} else {
		b.WriteString("No live source data is available: remove any hotel fact you cannot support.")
	}
	fmt.Fprintf(&b, "\n\nThis is correction attempt %d of %d.", attempt, maxAttempts-1)
	return b.String()
}

// describeIssue renders one issue in natural language
func describeIssue(issue model.Issue) string {
	var b strings.Builder
	if issue.Hotel != "" {
		fmt.Fprintf(&b, "%s, %s: ", issue.Hotel, issue.Field)
	} else if issue.Field != "" {
		fmt.Fprintf(&b, "%s: ", issue.Field)
	}
	b.WriteString(issue.Message)
	if issue.GroundTruth != nil {
		fmt.Fprintf(&b, " (you said %s, source data says %s)", quoted(issue.Claimed), quoted(*issue.GroundTruth))
	} else if issue.Claimed != "" {
		fmt.Fprintf(&b, " (you said %s)", quoted(issue.Claimed))
	}
	if issue.Advisory {
		b.WriteString(" [check this value]")
	}
	return b.String()
}

func quoted(s string) string {
	if s == "" {
		return "nothing"
	}
	return fmt.Sprintf("%q", s)
}

// Disclosure explains an answer that never passed verification
func Disclosure(report model.Report, gt model.GroundTruth) string {
	unverified := report.HotelsWithBlockingIssues()
	var b strings.Builder
	b.WriteString("This answer could not be fully verified against live hotel data")
	if len(unverified) > 0 {
		fmt.Fprintf(&b, ": %d hotel(s) are marked unverified", len(unverified))
	}
	b.WriteString(". Please confirm prices and ratings before booking.")
	if !gt.Available {
		b.WriteString(" Live hotel data was unavailable for this request.")
	}
	return b.String()
}
