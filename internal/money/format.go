package money

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale is the single display locale of the ledger.
var Locale = language.BrazilianPortuguese

const symbol = "R$"

// FormatBRL renders v as Brazilian reais with two decimal places, e.g.
// "R$ 1.234,56". Negative values get a leading minus: "-R$ 10,00".
func FormatBRL(v float64) string {
	p := message.NewPrinter(Locale)
	if v < 0 {
		return "-" + symbol + " " + p.Sprintf("%.2f", math.Abs(v))
	}
	return symbol + " " + p.Sprintf("%.2f", v)
}

// FormatNumber renders v with pt-BR separators and two decimals, without
// the currency symbol.
func FormatNumber(v float64) string {
	return message.NewPrinter(Locale).Sprintf("%.2f", v)
}
