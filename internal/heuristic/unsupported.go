package heuristic

import "regexp"

// UnsupportedKind classifies a factual-sounding phrase that needs data behind it
type UnsupportedKind string

const (
	UnsupportedOverconfident UnsupportedKind = "overconfident" // "definitely", "guaranteed"
	UnsupportedVagueClaim    UnsupportedKind = "vague_claim"   // "the best hotel", "most popular"
	UnsupportedPrice         UnsupportedKind = "price"         // "$180" in prose
)

// UnsupportedClaim is one phrase found by UnsupportedClaims
type UnsupportedClaim struct {
	Kind   UnsupportedKind
	Phrase string
}

var (
	overconfidentPattern = wordPattern([]string{
		"definitely",
		"certainly",
		"guaranteed",
		"guarantee",
		"always",
		"never fails",
	})
	vagueClaimPattern = wordPattern([]string{
		"the best hotel",
		"top rated",
		"top-rated",
		"most popular",
		"highly recommended",
	})
	pricePattern = regexp.MustCompile(`(?:US\$|[$€£¥])\s?\d[\d,]*(?:\.\d+)?`)
)

// UnsupportedClaims finds overconfident language, vague superlatives and
// prices written into the narrative. They only mean something when no hotel
// data backs the answer; callers decide when to ask. At most one phrase is
// reported per kind except prices, which are all listed.
func UnsupportedClaims(text string) []UnsupportedClaim {
	t := normalize(text)
	var out []UnsupportedClaim

	if m := overconfidentPattern.FindString(t); m != "" {
		out = append(out, UnsupportedClaim{Kind: UnsupportedOverconfident, Phrase: m})
	}
	if m := vagueClaimPattern.FindString(t); m != "" {
		out = append(out, UnsupportedClaim{Kind: UnsupportedVagueClaim, Phrase: m})
	}
	for _, m := range pricePattern.FindAllString(text, -1) {
		out = append(out, UnsupportedClaim{Kind: UnsupportedPrice, Phrase: m})
	}
	return out
}
