package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/staycheck/internal/model"
)

// Text writes a turn result for a terminal
func Text(w io.Writer, result *model.TurnResult, verbose bool) error {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(result.FinalClaim.Narrative))
	b.WriteString("\n")

	if result.Disclosure != nil {
		fmt.Fprintf(&b, "\n⚠ %s\n", *result.Disclosure)
	}

	for i, c := range Cards(result) {
		b.WriteString("\n")
		writeCard(&b, i+1, c)
	}

	if verbose {
		writeDetails(&b, result)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCard(b *strings.Builder, n int, c Card) {
	fmt.Fprintf(b, "%d. %s  [%s]", n, c.Name, c.Badge)
	if c.Label != "" {
		fmt.Fprintf(b, " (%s)", c.Label)
	}
	b.WriteString("\n")

	var facts []string
	if c.Price != nil {
		facts = append(facts, formatPrice(*c.Price, c.Currency)+"/night")
	}
	if c.Rating != nil {
		rating := fmt.Sprintf("★ %.1f", *c.Rating)
		if c.ReviewCount != nil {
			rating += fmt.Sprintf(" (%d reviews)", *c.ReviewCount)
		}
		facts = append(facts, rating)
	}
	if c.Type != "" {
		facts = append(facts, c.Type)
	}
	if len(facts) > 0 {
		fmt.Fprintf(b, "   %s\n", strings.Join(facts, " · "))
	}
	if c.Address != "" {
		fmt.Fprintf(b, "   %s\n", c.Address)
	}
	fmt.Fprintf(b, "   %s\n", c.Link)
}

func writeDetails(b *strings.Builder, result *model.TurnResult) {
	status := "validated"
	if !result.Validated {
		status = "not validated"
	}
	fmt.Fprintf(b, "\n── %s after %d attempt(s) · confidence %s · index %d/100\n",
		status, result.Attempts, result.Summary.Confidence, result.Summary.Index)

	source := "unavailable"
	if result.GroundTruth.Available {
		source = fmt.Sprintf("%s, %d records", result.GroundTruth.Source, len(result.GroundTruth.Records))
	}
	fmt.Fprintf(b, "   source data: %s\n", source)

	for _, issue := range result.Report.Issues {
		fmt.Fprintf(b, "   - %s\n", issue.String())
	}
}

func formatPrice(price float64, currency string) string {
	amount := fmt.Sprintf("%.0f", price)
	if price != float64(int64(price)) {
		amount = fmt.Sprintf("%.2f", price)
	}
	switch strings.ToUpper(currency) {
	case "USD", "":
		return "$" + amount
	case "EUR":
		return "€" + amount
	case "GBP":
		return "£" + amount
	default:
		return amount + " " + strings.ToUpper(currency)
	}
}
