package services

import (
	"context"

	"github.com/nimasrn/loanbook/internal/model"
	"github.com/nimasrn/loanbook/pkg/logger"
)

type LoanService struct {
	store   LoanStore
	metrics Recorder
}

func NewLoanService(store LoanStore, metrics Recorder) *LoanService {
	return &LoanService{
		store:   store,
		metrics: recorderOrNoop(metrics),
	}
}

// Add records a new loan extended to p.Name.
func (s *LoanService) Add(ctx context.Context, p model.LoanCreateRequest) (*model.Loan, error) {
	loan, err := s.store.Append(ctx, p)
	if err != nil {
		return nil, err
	}
	s.metrics.LoanAppended()
	logger.Debug("loan recorded", "id", loan.ID, "name", loan.Name, "amount", loan.Amount)
	return loan, nil
}
