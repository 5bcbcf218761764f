package model

import "strings"

// NormalizeName lowercases and collapses whitespace so that names can be
// compared regardless of formatting.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

var currencyAliases = map[string]string{
	"$":   "USD",
	"us$": "USD",
	"usd": "USD",
	"€":   "EUR",
	"eur": "EUR",
	"£":   "GBP",
	"gbp": "GBP",
	"¥":   "JPY",
	"jpy": "JPY",
	"₹":   "INR",
	"inr": "INR",
	"a$":  "AUD",
	"aud": "AUD",
	"c$":  "CAD",
	"cad": "CAD",
	"chf": "CHF",
}

// NormalizeCurrency maps symbols and lowercase codes onto ISO 4217 codes.
// Unknown values are upper-cased and returned as-is.
func NormalizeCurrency(currency string) string {
	c := strings.ToLower(strings.TrimSpace(currency))
	if c == "" {
		return ""
	}
	if code, ok := currencyAliases[c]; ok {
		return code
	}
	return strings.ToUpper(c)
}
