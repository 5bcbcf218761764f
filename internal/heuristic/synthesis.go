package heuristic

import (
	"regexp"
	"strings"
)

var synthesisPattern = wordPattern([]string{
	"recommend",
	"recommended",
	"recommendation",
	"suggest",
	"i'd go with",
	"if you",
	"if budget",
	"compare",
	"compared",
	"comparison",
	"better",
	"cheaper",
	"pricier",
	"more expensive",
	"less expensive",
	"than",
	"whereas",
	"however",
	"on the other hand",
	"alternatively",
	"trade-off",
	"tradeoff",
	"value for money",
	"great value",
	"best value",
	"ideal for",
	"perfect for",
	"great for",
	"good choice",
	"great choice",
	"top pick",
	"consider",
	"prefer",
	"splurge",
	"families",
	"couples",
	"business travelers",
	"business travellers",
})

// HasSynthesis reports whether text compares options or gives advice
func HasSynthesis(text string) bool {
	return synthesisPattern.MatchString(normalize(text))
}

var (
	listMarker = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*\x{2022}])\s*`)
	fieldLine  = regexp.MustCompile(`(?i)^\s*(?:[-*\x{2022}]\s*)?(?:\*\*)?(?:price|rating|address|reviews?|link|type|currency)(?:\*\*)?\s*:`)
)

// StripListing removes the data listing from a narrative: field lines, list
// markers and the hotel names themselves. What remains is the prose the
// model wrote around the data.
func StripListing(text string, names []string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if fieldLine.MatchString(line) {
			continue
		}
		line = listMarker.ReplaceAllString(line, "")
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}

	out := strings.Join(kept, "\n")
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name))
		out = re.ReplaceAllString(out, " ")
	}
	return out
}
