package helpers

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPriceUSD renders a price with exactly six decimal places, matching
// the reply contract of the analysis flow ("$67890.123000").
func FormatPriceUSD(price float64) string {
	return fmt.Sprintf("%.6f", price)
}

// FormatPriceUS renders a price for human-facing prompts: comma-grouped,
// with precision adapted to the magnitude.
func FormatPriceUS(price float64) string {
	decimals := 6

	if price > 1.2 {
		decimals = 2
	} else if price < 0.00001 {
		decimals = 8
	}

	p := message.NewPrinter(language.English)
	return p.Sprintf("%.*f", decimals, price)
}

// NormalizeSymbol turns free text into a ticker symbol. Any non-empty text
// is accepted; no symbol-list validation happens here.
func NormalizeSymbol(text string) string {
	return strings.ToUpper(strings.TrimSpace(text))
}
