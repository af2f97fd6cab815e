package services

import (
	"context"
	"fmt"
	"math"

	"github.com/nimasrn/loanbook/internal/model"
	"github.com/nimasrn/loanbook/pkg/date"
	"github.com/nimasrn/loanbook/pkg/logger"
)

type SettlementOptions struct {
	// TruncatePartial drops the fraction of a partial amount (20.75 settles 20).
	TruncatePartial bool
	// Today returns the date stamped on settlement rows. Defaults to date.Today.
	Today func() date.Date
}

// SettlementService appends the row that pays a debt back, fully or in part.
type SettlementService struct {
	store    LoanStore
	balances *BalanceService
	opts     SettlementOptions
	metrics  Recorder
}

func NewSettlementService(store LoanStore, opts SettlementOptions, metrics Recorder) *SettlementService {
	if opts.Today == nil {
		opts.Today = date.Today
	}
	return &SettlementService{
		store:    store,
		balances: NewBalanceService(store),
		opts:     opts,
		metrics:  recorderOrNoop(metrics),
	}
}

// Settle records a repayment by name. Without partial the row is the exact
// negation of the current balance, whatever its sign, so the balance ends at
// zero. With partial the row is -partial and may over- or undershoot; nothing
// is clamped. A person without rows is not an error.
func (s *SettlementService) Settle(ctx context.Context, name string, partial *float64) (*model.Loan, error) {
	if partial != nil && (math.IsNaN(*partial) || math.IsInf(*partial, 0)) {
		return nil, fmt.Errorf("%w: settlement amount must be a finite number", model.ErrInvalidArgument)
	}

	var settled *model.Loan
	err := s.store.WithinTransaction(ctx, func(ctx context.Context) error {
		total, err := s.balances.Balance(ctx, name)
		if err != nil {
			return err
		}

		var amount float64
		if partial == nil {
			amount = total.Neg().InexactFloat64()
		} else {
			p := *partial
			if s.opts.TruncatePartial {
				p = math.Trunc(p)
			}
			amount = -p
		}
		if amount == 0 {
			amount = 0 // no negative zero on disk
		}

		loan, err := s.store.Append(ctx, model.LoanCreateRequest{
			Date:   s.opts.Today(),
			Name:   name,
			Amount: amount,
		})
		if err != nil {
			return err
		}
		settled = loan
		logger.Debug("settlement recorded", "name", name, "previous_balance", total.String(), "amount", amount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Settled()
	return settled, nil
}
