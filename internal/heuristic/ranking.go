package heuristic

import (
	"regexp"
	"strings"
)

// RankingKind names what a superlative asserts
type RankingKind string

const (
	RankLowestPrice   RankingKind = "lowest_price"
	RankHighestRating RankingKind = "highest_rating"
)

// RankingAssertion is one superlative found in a narrative
type RankingAssertion struct {
	Kind     RankingKind
	Keyword  string // Matched phrase, lowercased
	Sentence string // Sentence containing the phrase, lowercased
	Offset   int    // Byte offset of the phrase inside Sentence

	// Bounds of the clause holding the phrase, as byte offsets into Sentence
	ClauseStart, ClauseEnd int
}

var (
	lowestPricePattern = wordPattern([]string{
		"cheapest",
		"least expensive",
		"lowest price",
		"lowest-priced",
		"lowest priced",
		"most affordable",
	})
	highestRatingPattern = wordPattern([]string{
		"best",
		"best-rated",
		"best rated",
		"highest rated",
		"highest-rated",
		"top-rated",
		"top rated",
	})
	// "best" in these phrases is not a rating claim
	bestExclusions = []string{
		"best value",
		"best deal",
		"best for",
		"best bet",
		"best location",
		"best located",
		"best price",
		"best way",
		"best time",
		"best of luck",
		"best wishes",
		"best regards",
	}
	clauseSplit   = regexp.MustCompile(`[,;:]|\s(?:and|but|while|whereas)\s`)
	sentenceSplit = regexp.MustCompile(`[.!?]+(?:\s+|$)|\n+`)
)

// RankingAssertions finds superlative claims about price or rating
func RankingAssertions(text string) []RankingAssertion {
	var out []RankingAssertion

	for _, sentence := range sentenceSplit.Split(normalize(text), -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}

		if loc := lowestPricePattern.FindStringIndex(sentence); loc != nil {
			out = append(out, newAssertion(RankLowestPrice, sentence, loc))
		}

		for _, loc := range highestRatingPattern.FindAllStringIndex(sentence, -1) {
			if excludedBest(sentence[loc[0]:]) {
				continue
			}
			out = append(out, newAssertion(RankHighestRating, sentence, loc))
			break
		}
	}

	return out
}

func newAssertion(kind RankingKind, sentence string, loc []int) RankingAssertion {
	a := RankingAssertion{
		Kind:      kind,
		Keyword:   sentence[loc[0]:loc[1]],
		Sentence:  sentence,
		Offset:    loc[0],
		ClauseEnd: len(sentence),
	}
	for _, sep := range clauseSplit.FindAllStringIndex(sentence, -1) {
		if sep[1] <= loc[0] {
			a.ClauseStart = sep[1]
		} else if sep[0] >= loc[1] {
			a.ClauseEnd = sep[0]
			break
		}
	}
	return a
}

func excludedBest(rest string) bool {
	for _, phrase := range bestExclusions {
		if strings.HasPrefix(rest, phrase) {
			return true
		}
	}
	return false
}

// Subject picks the hotel a ranking assertion refers to: a name in the same
// clause as the superlative, otherwise the name closest to it in the
// sentence, preferring names written before it. It returns -1 when no name
// occurs.
func (a RankingAssertion) Subject(names []string) int {
	if i := a.closest(names, a.ClauseStart, a.ClauseEnd); i >= 0 {
		return i
	}
	return a.closest(names, 0, len(a.Sentence))
}

func (a RankingAssertion) closest(names []string, from, to int) int {
	best, bestDist := -1, 0
	for i, name := range names {
		n := strings.Join(strings.Fields(normalize(name)), " ")
		if n == "" {
			continue
		}
		idx := strings.Index(a.Sentence[from:to], n)
		if idx < 0 {
			continue
		}
		idx += from

		// Names after the keyword lose ties
		var dist int
		if idx < a.Offset {
			dist = 2 * (a.Offset - (idx + len(n)))
		} else {
			dist = 2*(idx-(a.Offset+len(a.Keyword))) + 1
		}
		if dist < 0 {
			dist = 0
		}
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}
