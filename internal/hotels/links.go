package hotels

import "net/url"

const searchBaseURL = "https://www.google.com/travel/hotels"

// FallbackLink builds a hotel search URL for records without a deep link
func FallbackLink(name, city string) string {
	q := name
	if city != "" {
		q += " " + city
	}
	return searchBaseURL + "?q=" + url.QueryEscape(q)
}
