package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	symbolPattern = regexp.MustCompile(`(?:US\$|A\$|C\$|[$€£¥₹])`)
)

// wireNumber accepts a JSON number or a numeric string such as "$120",
// "4.5 stars" or "1,204 reviews". Missing, null and "N/A" values decode to nil.
type wireNumber struct {
	Value  *float64
	Symbol string // Currency symbol found in a string value
}

func (n *wireNumber) UnmarshalJSON(data []byte) error {
	n.Value, n.Symbol = nil, ""

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		n.Value = &num
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Objects, arrays and booleans carry no usable number
		return nil
	}

	n.Symbol = symbolPattern.FindString(s)
	match := numberPattern.FindString(strings.ReplaceAll(s, ",", ""))
	if match == "" {
		return nil
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	n.Value = &v
	return nil
}
