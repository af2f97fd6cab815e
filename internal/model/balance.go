package model

import "github.com/shopspring/decimal"

// Balance is what a person owes: the sum of all their rows.
type Balance struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"balance"`
	Count  int64           `json:"transactions"`
}
