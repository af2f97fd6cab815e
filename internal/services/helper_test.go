package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nimasrn/loanbook/internal/model"
	"github.com/nimasrn/loanbook/internal/repository"
	"github.com/nimasrn/loanbook/pkg/date"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func loan(id int64, day, name string, amount float64) model.Loan {
	return model.Loan{ID: id, Date: date.MustParse(day), Name: name, Amount: amount}
}

// newLedger creates a ledger file named name under dir.
func newLedger(t *testing.T, dir, name string) (*repository.LoanRepository, string) {
	t.Helper()
	path := filepath.Join(dir, name)
	repo, err := repository.Initialize(context.Background(), path, repository.StoreOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, path
}

func addLoan(t *testing.T, repo *repository.LoanRepository, day, name string, amount float64) *model.Loan {
	t.Helper()
	created, err := repo.Append(context.Background(), model.LoanCreateRequest{
		Date:   date.MustParse(day),
		Name:   name,
		Amount: amount,
	})
	require.NoError(t, err)
	return created
}

func allLoans(t *testing.T, repo *repository.LoanRepository) []model.Loan {
	t.Helper()
	rows, err := repository.Collect(repo.All(context.Background()))
	require.NoError(t, err)
	return rows
}

// withoutRefs blanks the refs so rows compare by id and content only.
func withoutRefs(rows []model.Loan) []model.Loan {
	out := make([]model.Loan, len(rows))
	for i, l := range rows {
		l.Ref = ""
		out[i] = l
	}
	return out
}
