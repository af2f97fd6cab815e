package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/nimasrn/loanbook/pkg/date"
)

// Loan is one immutable ledger row. A positive Amount means the person owes
// more (money was lent to them), a negative one records a repayment.
type Loan struct {
	ID     int64     `json:"id"`
	Date   date.Date `json:"date"`
	Name   string    `json:"name"`
	Amount float64   `json:"amount"`
	// Ref is a correlation token assigned when the row was first written.
	// Rows copied from ledgers that predate refs leave it empty.
	Ref string `json:"ref,omitempty"`
}

// Key is the natural identity of a loan across ledgers. IDs are store-local
// and deliberately excluded.
type Key struct {
	Date   date.Date
	Name   string
	Amount float64
}

func (l Loan) Key() Key {
	return Key{Date: l.Date, Name: l.Name, Amount: l.Amount}
}

// LoanCreateRequest is the input for recording a new row.
type LoanCreateRequest struct {
	Date   date.Date
	Name   string
	Amount float64
}

func (p LoanCreateRequest) Validate() error {
	if p.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if math.IsNaN(p.Amount) || math.IsInf(p.Amount, 0) {
		return fmt.Errorf("%w: amount must be a finite number", ErrInvalidArgument)
	}
	return nil
}

// LoanFilter controls List queries.
type LoanFilter struct {
	Name  *string    // equals, exact match
	From  *date.Date // inclusive
	To    *date.Date // inclusive
	Limit int        // 0 means no limit
}
