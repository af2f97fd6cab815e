package services

import (
	"fmt"

	"github.com/nimasrn/loanbook/internal/model"
)

// MergeStrategy decides when an incoming row is a copy of one already held.
type MergeStrategy string

const (
	// MergeByTuple treats rows with equal (date, name, amount) as the same
	// event. Two real loans to one person on one day for one amount are
	// indistinguishable under it.
	MergeByTuple MergeStrategy = "tuple"
	// MergeByRef matches rows by their correlation token and falls back to
	// the tuple for rows that have none. A held row without a token still
	// matches one incoming row with a token and the same tuple, so ledgers
	// from before tokens existed do not gain a second copy of every row.
	MergeByRef MergeStrategy = "ref"
)

func ParseMergeStrategy(s string) (MergeStrategy, error) {
	switch MergeStrategy(s) {
	case MergeByTuple, MergeByRef:
		return MergeStrategy(s), nil
	default:
		return "", fmt.Errorf("%w: unknown merge key %q", model.ErrInvalidArgument, s)
	}
}

// MergePlan is the outcome of PlanMerge: the rows to write, renumbered, and
// the rows dropped as duplicates.
type MergePlan struct {
	Inserts []model.Loan
	Skipped []model.Loan
	// NextID is the id the next row added after the plan would get.
	NextID int64
}

// PlanMerge decides, without touching any store, how incoming folds into
// existing. Incoming rows are visited in order; a row is skipped when an
// equal row is already held, counting rows accepted earlier in the same plan,
// otherwise it is renumbered from nextID upwards. Existing rows keep their ids.
func PlanMerge(existing, incoming []model.Loan, nextID int64, strategy MergeStrategy) MergePlan {
	keys := make(map[model.Key]struct{}, len(existing)+len(incoming))
	refs := make(map[string]struct{})
	// tuples of held rows without a ref, each able to absorb one ref'd copy
	bare := make(map[model.Key]int)
	remember := func(l model.Loan) {
		keys[l.Key()] = struct{}{}
		if l.Ref != "" {
			refs[l.Ref] = struct{}{}
		} else {
			bare[l.Key()]++
		}
	}
	held := func(l model.Loan) bool {
		if strategy != MergeByRef || l.Ref == "" {
			_, ok := keys[l.Key()]
			return ok
		}
		if _, ok := refs[l.Ref]; ok {
			return true
		}
		if bare[l.Key()] > 0 {
			bare[l.Key()]--
			return true
		}
		return false
	}
	for _, l := range existing {
		remember(l)
	}

	plan := MergePlan{NextID: nextID}
	for _, l := range incoming {
		if held(l) {
			plan.Skipped = append(plan.Skipped, l)
			continue
		}
		copied := l
		copied.ID = plan.NextID
		plan.NextID++
		plan.Inserts = append(plan.Inserts, copied)
		remember(copied)
	}
	return plan
}
