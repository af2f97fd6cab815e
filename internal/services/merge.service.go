package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/loanbook/internal/model"
	"github.com/nimasrn/loanbook/internal/repository"
	"github.com/nimasrn/loanbook/pkg/logger"
)

// MergeService folds an incoming ledger into a local one. The direction is
// fixed: rows only ever travel from the incoming side to the local side.
type MergeService struct {
	strategy MergeStrategy
	metrics  Recorder
	now      func() time.Time
}

func NewMergeService(strategy MergeStrategy, metrics Recorder) *MergeService {
	if strategy == "" {
		strategy = MergeByTuple
	}
	return &MergeService{
		strategy: strategy,
		metrics:  recorderOrNoop(metrics),
		now:      time.Now,
	}
}

// Merge copies every row of incoming that local does not already hold into
// local, under fresh ids above local's current maximum. All inserts commit
// together; on any failure local is left exactly as it was.
func (s *MergeService) Merge(ctx context.Context, local, incoming MergeStore) (*model.MergeReport, error) {
	start := s.now()

	rows, err := repository.Collect(incoming.All(ctx))
	if err != nil {
		return nil, asIO("read incoming ledger", err)
	}

	var plan MergePlan
	err = local.WithinTransaction(ctx, func(ctx context.Context) error {
		maxID, err := local.MaxID(ctx)
		if err != nil {
			return err
		}
		existing, err := repository.Collect(local.All(ctx))
		if err != nil {
			return err
		}

		plan = PlanMerge(existing, rows, maxID+1, s.strategy)
		for _, l := range plan.Inserts {
			if err := local.Insert(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("merge rolled back", "error", err)
		return nil, asIO("merge", err)
	}

	report := &model.MergeReport{
		Inserted: len(plan.Inserts),
		Skipped:  len(plan.Skipped),
		Duration: s.now().Sub(start),
	}
	if n := len(plan.Inserts); n > 0 {
		report.FirstID = plan.Inserts[0].ID
		report.LastID = plan.Inserts[n-1].ID
	}
	s.metrics.Merged(report.Inserted, report.Skipped, report.Duration)
	logger.Info("merge committed", "inserted", report.Inserted, "skipped", report.Skipped, "first_id", report.FirstID, "last_id", report.LastID)
	return report, nil
}

// asIO keeps already classified errors and files everything else under ErrIO,
// which is what a failed commit surfaces as.
func asIO(op string, err error) error {
	for _, known := range []error{model.ErrIO, model.ErrNotFound, model.ErrInvalidArgument, model.ErrAlreadyExists} {
		if errors.Is(err, known) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrIO, err)
}
