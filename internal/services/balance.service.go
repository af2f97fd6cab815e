package services

import (
	"context"
	"iter"
	"sort"

	"github.com/nimasrn/loanbook/internal/model"
	"github.com/shopspring/decimal"
)

// BalanceService folds a person's rows into what they owe. Nothing is cached:
// every call reads the store again.
type BalanceService struct {
	store LoanReader
}

func NewBalanceService(store LoanReader) *BalanceService {
	return &BalanceService{store: store}
}

// Balance is the exact sum of name's amounts, zero when they have no rows.
func (s *BalanceService) Balance(ctx context.Context, name string) (decimal.Decimal, error) {
	total, _, err := sum(s.store.Where(ctx, name))
	return total, err
}

// Balances returns everybody's balance, sorted by name.
func (s *BalanceService) Balances(ctx context.Context) ([]model.Balance, error) {
	byName := make(map[string]*model.Balance)
	for loan, err := range s.store.All(ctx) {
		if err != nil {
			return nil, err
		}
		b, ok := byName[loan.Name]
		if !ok {
			b = &model.Balance{Name: loan.Name, Amount: decimal.Zero}
			byName[loan.Name] = b
		}
		b.Amount = b.Amount.Add(decimal.NewFromFloat(loan.Amount))
		b.Count++
	}

	out := make([]model.Balance, 0, len(byName))
	for _, b := range byName {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// sum folds amounts as decimals so that binary float noise does not pile up.
func sum(seq iter.Seq2[model.Loan, error]) (decimal.Decimal, int64, error) {
	total := decimal.Zero
	var n int64
	for loan, err := range seq {
		if err != nil {
			return decimal.Zero, 0, err
		}
		total = total.Add(decimal.NewFromFloat(loan.Amount))
		n++
	}
	return total, n, nil
}
