package core

import "errors"

// Currencies is the fixed set of selectable ISO currency codes.
var Currencies = []string{"USD", "EUR", "GBP", "JPY", "PHP", "INR"}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"PHP": "₱",
	"INR": "₹",
}

var ErrUnknownCurrency = errors.New("unknown currency code")

func ValidateCurrency(code string) error {
	if _, ok := currencySymbols[code]; !ok {
		return ErrUnknownCurrency
	}
	return nil
}

// CurrencySymbol returns the display symbol for a code, defaulting to "$".
func CurrencySymbol(code string) string {
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return "$"
}
