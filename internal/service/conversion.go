package service

import "github.com/shopspring/decimal"

// ConvertToBase turns a sale-unit quantity into base units: quantity × rate, exact.
func ConvertToBase(quantity int, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(rate)
}

// FormatQty renders a base-unit amount with its unit label, e.g. "60 KG".
func FormatQty(qty decimal.Decimal, unit string) string {
	if unit == "" {
		return qty.String()
	}
	return qty.String() + " " + unit
}
