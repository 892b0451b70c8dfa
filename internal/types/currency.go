package types

import "strings"

// DefaultCurrency is used when neither the record nor the config names one
const DefaultCurrency = "usd"

// CURRENCY_CODES_SYMBOLS is a map of 3 digit ISO currency codes to their symbols
var CURRENCY_CODES_SYMBOLS = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
	"aud": "AU$",
	"cad": "CA$",
	"chf": "CHF",
	"sek": "kr",
	"nzd": "NZ$",
	"hkd": "HK$",
	"sgd": "S$",
	"jpy": "¥",
	"cny": "¥",
	"inr": "₹",
	"brl": "R$",
	"mxn": "MX$",
	"zar": "R",
	"myr": "RM",
}

// GetCurrencySymbol returns the symbol for a given currency code
// if the code is not found, it returns the upper-cased code followed by a space
func GetCurrencySymbol(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}
	if symbol, ok := CURRENCY_CODES_SYMBOLS[code]; ok {
		return symbol
	}
	return strings.ToUpper(code) + " "
}
