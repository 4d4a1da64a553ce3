package localization

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/solfund/solfund-server/pkg/sol"
)

const solSymbol = "SOL"

// FormatSol formats a lamport amount as SOL using the locale's number
// formatting conventions
func FormatSol(locale language.Tag, lamports uint64) string {
	printer := message.NewPrinter(locale)
	amount := number.Decimal(sol.ToFloat(lamports), number.MaxFractionDigits(sol.Decimals))
	formatted := printer.Sprint(amount)

	if isRtlScript(locale) {
		return solSymbol + " " + formatted
	}
	return formatted + " " + solSymbol
}
