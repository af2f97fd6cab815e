package services

import (
	"context"
	"fmt"
	"os"

	"github.com/nimasrn/loanbook/internal/model"
	"github.com/nimasrn/loanbook/internal/repository"
	"github.com/nimasrn/loanbook/pkg/logger"
)

// LedgerService works on ledgers as files: creating them, opening them and
// combining two of them into one.
type LedgerService struct {
	opts   repository.StoreOptions
	merger *MergeService
	remove func(path string) error
}

func NewLedgerService(opts repository.StoreOptions, merger *MergeService) *LedgerService {
	if merger == nil {
		merger = NewMergeService(MergeByTuple, nil)
	}
	return &LedgerService{opts: opts, merger: merger, remove: os.Remove}
}

// Create initializes an empty ledger at path.
func (s *LedgerService) Create(ctx context.Context, path string) (*repository.LoanRepository, error) {
	store, err := repository.Initialize(ctx, path, s.opts)
	if err != nil {
		return nil, err
	}
	logger.Info("ledger created", "path", path)
	return store, nil
}

// Open opens the existing ledger at path.
func (s *LedgerService) Open(ctx context.Context, path string) (*repository.LoanRepository, error) {
	return repository.OpenStore(ctx, path, s.opts)
}

// Combine merges the ledger at newPath into the one at oldPath and then
// deletes newPath. If the file cannot be deleted the merge still stands; the
// reason is left in the report's RemoveErr.
func (s *LedgerService) Combine(ctx context.Context, oldPath, newPath string) (*model.MergeReport, error) {
	if sameFile(oldPath, newPath) {
		return nil, fmt.Errorf("%w: cannot combine %s with itself", model.ErrInvalidArgument, oldPath)
	}

	local, err := s.Open(ctx, oldPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := local.Close(); err != nil {
			logger.Warn("closing ledger failed", "path", oldPath, "error", err)
		}
	}()

	incoming, err := s.Open(ctx, newPath)
	if err != nil {
		return nil, err
	}

	report, err := s.merger.Merge(ctx, local, incoming)
	// The incoming handle goes before its file does.
	if cerr := incoming.Close(); cerr != nil {
		logger.Warn("closing ledger failed", "path", newPath, "error", cerr)
	}
	if err != nil {
		return nil, err
	}

	report.Target = oldPath
	report.Source = newPath
	if err := s.remove(newPath); err != nil {
		report.RemoveErr = err
		logger.Warn("merged ledger could not be removed", "path", newPath, "error", err)
		return report, nil
	}
	report.Removed = true
	return report, nil
}

// sameFile reports whether both paths name one existing file.
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
