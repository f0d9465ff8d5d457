package model

import "github.com/shopspring/decimal"

// CurrencyPlaces is the number of decimal places money is kept to.
const CurrencyPlaces = 2

// FormatMoney renders an amount with exactly CurrencyPlaces decimals,
// rounding half to even.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixedBank(CurrencyPlaces)
}
