// Package heuristic holds the keyword predicates used by the parser and the
// checkers. Each predicate carries a version so that a classifier can
// replace it without changing callers.
package heuristic

import (
	"regexp"
	"strings"
)

// Predicate versions
const (
	CourtesyVersion  = "courtesy/v1"
	RankingVersion   = "ranking/v1"
	SynthesisVersion = "synthesis/v1"
	ListingVersion   = "listing/v1"

	UnsupportedVersion = "unsupported/v1"
)

// Versions returns every predicate version, for diagnostics
func Versions() []string {
	return []string{CourtesyVersion, RankingVersion, SynthesisVersion, ListingVersion, UnsupportedVersion}
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

// normalize lowercases text and folds typographic apostrophes
func normalize(text string) string {
	return apostrophes.Replace(strings.ToLower(text))
}

// wordPattern builds a case-insensitive regexp matching any phrase on word
// boundaries
func wordPattern(phrases []string) *regexp.Regexp {
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}
