package services

import (
	"context"
	"iter"
	"time"

	"github.com/nimasrn/loanbook/internal/model"
)

// LoanReader is the read side of a record store.
type LoanReader interface {
	All(ctx context.Context) iter.Seq2[model.Loan, error]
	Where(ctx context.Context, name string) iter.Seq2[model.Loan, error]
}

// LoanStore is a record store that can also be written.
type LoanStore interface {
	LoanReader
	Append(ctx context.Context, p model.LoanCreateRequest) (*model.Loan, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MergeStore is what the merger needs from each side of a merge.
type MergeStore interface {
	All(ctx context.Context) iter.Seq2[model.Loan, error]
	MaxID(ctx context.Context) (int64, error)
	Insert(ctx context.Context, loan model.Loan) error
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Recorder receives operation metrics.
type Recorder interface {
	LoanAppended()
	Settled()
	Merged(inserted, skipped int, took time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) LoanAppended()                  {}
func (noopRecorder) Settled()                       {}
func (noopRecorder) Merged(int, int, time.Duration) {}

func recorderOrNoop(r Recorder) Recorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}
