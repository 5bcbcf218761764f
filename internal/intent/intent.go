// Package intent derives the turn parameters the pipeline needs from a raw
// user message: the destination city and whether hotels were requested.
package intent

import (
	"regexp"
	"strings"

	"github.com/ppiankov/staycheck/internal/model"
)

// Intent is the upstream interpretation of one user message
type Intent struct {
	City                  string
	RecommendationRequest bool
}

var (
	// "hotels in Paris", "stay at New York", "trip to San Francisco"
	cityAfterPreposition = regexp.MustCompile(`\b(?:in|at|to|near|around)\s+((?:[A-Z][\p{L}'-]+)(?:\s+[A-Z][\p{L}'-]+){0,2})`)
	// "Paris hotels", "Tokyo accommodation"
	cityBeforeNoun = regexp.MustCompile(`\b((?:[A-Z][\p{L}'-]+)(?:\s+[A-Z][\p{L}'-]+){0,2})\s+(?:hotels?|stays?|accommodations?|hostels?)\b`)

	requestPattern = regexp.MustCompile(`(?i)\b(?:hotels?|stay|staying|accommodations?|lodging|hostels?|rooms?|book|booking|recommend\w*|suggest\w*|price|prices|cost|costs|cheap\w*|budget|affordable|per night|nightly|where should i)\b`)

	notCities = map[string]bool{
		"I": true, "The": true, "A": true, "My": true, "Our": true, "What": true,
		"Which": true, "Any": true, "Some": true, "Best": true, "Cheap": true,
		"Hotel": true, "Hotels": true, "Please": true, "Can": true, "Could": true,
	}
)

// Parse interprets message, falling back to the most recent city mentioned
// in the user's earlier messages
func Parse(message string, history []model.Message) Intent {
	city := ExtractCity(message)
	if city == "" {
		for i := len(history) - 1; i >= 0; i-- {
			if history[i].Role != model.RoleUser {
				continue
			}
			if c := ExtractCity(history[i].Content); c != "" {
				city = c
				break
			}
		}
	}

	return Intent{
		City:                  city,
		RecommendationRequest: IsRecommendationRequest(message),
	}
}

// ExtractCity returns the first capitalized place name in text
func ExtractCity(text string) string {
	for _, re := range []*regexp.Regexp{cityAfterPreposition, cityBeforeNoun} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if city := cleanCity(m[1]); city != "" {
				return city
			}
		}
	}
	return ""
}

func cleanCity(candidate string) string {
	words := strings.Fields(candidate)
	for len(words) > 0 && notCities[words[0]] {
		words = words[1:]
	}
	for len(words) > 0 && notCities[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// IsRecommendationRequest reports whether the user asked for hotels or prices
func IsRecommendationRequest(message string) bool {
	return requestPattern.MatchString(message)
}

// Request builds the turn request for message. A non-empty city overrides
// the one found in the conversation.
func Request(message string, history []model.Message, city string) model.TurnRequest {
	in := Parse(message, history)
	if c := strings.TrimSpace(city); c != "" {
		in.City = c
	}
	return model.TurnRequest{
		Message:               message,
		History:               history,
		City:                  in.City,
		RecommendationRequest: in.RecommendationRequest,
	}
}
