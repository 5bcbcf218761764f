package heuristic

import (
	"strings"
	"unicode/utf8"
)

// CourtesyShortLimit is the rune length under which a message mentioning
// thanks is treated as a courtesy exchange
const CourtesyShortLimit = 120

var courtesyPhrases = []string{
	"you're welcome",
	"you are welcome",
	"have a great",
	"have a wonderful",
	"enjoy your",
	"safe travels",
	"goodbye",
}

// IsCourtesy reports whether a reply is a pleasantry rather than a
// recommendation. English only.
func IsCourtesy(text string) bool {
	t := normalize(strings.TrimSpace(text))
	if t == "" {
		return false
	}

	for _, phrase := range courtesyPhrases {
		if strings.Contains(t, phrase) {
			return true
		}
	}

	return utf8.RuneCountInString(t) <= CourtesyShortLimit && strings.Contains(t, "thank")
}
