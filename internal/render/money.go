package render

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money formats amount in currency, e.g. "€50.00" or "-$20.00". Codes that
// go-money does not know are printed as a plain decimal followed by the code.
func Money(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		if currency == "" {
			return amount.StringFixed(2)
		}
		return amount.StringFixed(2) + " " + currency
	}

	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// MoneyFromFloat is Money for a stored amount.
func MoneyFromFloat(amount float64, currency string) string {
	return Money(decimal.NewFromFloat(amount), currency)
}
