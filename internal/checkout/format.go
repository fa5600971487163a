package checkout

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("es-AR"))

// FormatPrice renders an amount the way the storefront shows prices,
// es-AR style: "$ 1.234,56".
func FormatPrice(v float64) string {
	return printer.Sprintf("$ %v",
		number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
