package services

import (
	"testing"

	"github.com/nimasrn/loanbook/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMergeStrategy(t *testing.T) {
	s, err := ParseMergeStrategy("tuple")
	require.NoError(t, err)
	assert.Equal(t, MergeByTuple, s)

	s, err = ParseMergeStrategy("ref")
	require.NoError(t, err)
	assert.Equal(t, MergeByRef, s)

	_, err = ParseMergeStrategy("id")
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestPlanMerge(t *testing.T) {
	tests := []struct {
		name        string
		existing    []model.Loan
		incoming    []model.Loan
		next        int64
		wantInserts []model.Loan
		wantSkipped int
		wantNext    int64
	}{
		{
			name:        "copies new rows above the local maximum",
			existing:    []model.Loan{loan(1, "2024-01-01", "Bob", 50)},
			incoming:    []model.Loan{loan(1, "2024-01-01", "Bob", 50), loan(2, "2024-01-02", "Bob", 10)},
			next:        2,
			wantInserts: []model.Loan{loan(2, "2024-01-02", "Bob", 10)},
			wantSkipped: 1,
			wantNext:    3,
		},
		{
			name:        "incoming ids are ignored",
			existing:    []model.Loan{loan(1, "2024-01-01", "Bob", 50), loan(2, "2024-01-01", "Eve", 5)},
			incoming:    []model.Loan{loan(1, "2024-02-01", "Ann", 7), loan(2, "2024-02-02", "Ann", 8)},
			next:        3,
			wantInserts: []model.Loan{loan(3, "2024-02-01", "Ann", 7), loan(4, "2024-02-02", "Ann", 8)},
			wantNext:    5,
		},
		{
			name:        "duplicates inside the incoming ledger collapse",
			incoming:    []model.Loan{loan(1, "2024-01-01", "Bob", 50), loan(2, "2024-01-01", "Bob", 50)},
			next:        1,
			wantInserts: []model.Loan{loan(1, "2024-01-01", "Bob", 50)},
			wantSkipped: 1,
			wantNext:    2,
		},
		{
			name:        "names are compared verbatim",
			existing:    []model.Loan{loan(1, "2024-01-01", "Bob", 50)},
			incoming:    []model.Loan{loan(1, "2024-01-01", "bob", 50), loan(2, "2024-01-01", "Bob ", 50)},
			next:        2,
			wantInserts: []model.Loan{loan(2, "2024-01-01", "bob", 50), loan(3, "2024-01-01", "Bob ", 50)},
			wantNext:    4,
		},
		{
			name:     "empty incoming",
			existing: []model.Loan{loan(1, "2024-01-01", "Bob", 50)},
			next:     2,
			wantNext: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := PlanMerge(tt.existing, tt.incoming, tt.next, MergeByTuple)
			assert.Equal(t, tt.wantInserts, plan.Inserts)
			assert.Len(t, plan.Skipped, tt.wantSkipped)
			assert.Equal(t, tt.wantNext, plan.NextID)
		})
	}
}

func TestPlanMerge_RefStrategy(t *testing.T) {
	withRef := func(l model.Loan, ref string) model.Loan {
		l.Ref = ref
		return l
	}
	existing := []model.Loan{withRef(loan(1, "2024-01-01", "Bob", 50), "r1")}

	t.Run("same tuple with another ref is a second loan", func(t *testing.T) {
		incoming := []model.Loan{withRef(loan(1, "2024-01-01", "Bob", 50), "r2")}
		plan := PlanMerge(existing, incoming, 2, MergeByRef)
		require.Len(t, plan.Inserts, 1)
		assert.Equal(t, int64(2), plan.Inserts[0].ID)
		assert.Equal(t, "r2", plan.Inserts[0].Ref)
	})

	t.Run("same ref is a copy", func(t *testing.T) {
		incoming := []model.Loan{withRef(loan(7, "2024-01-01", "Bob", 50), "r1")}
		plan := PlanMerge(existing, incoming, 2, MergeByRef)
		assert.Empty(t, plan.Inserts)
		assert.Len(t, plan.Skipped, 1)
	})

	t.Run("rows without a ref fall back to the tuple", func(t *testing.T) {
		incoming := []model.Loan{loan(1, "2024-01-01", "Bob", 50), loan(2, "2024-01-03", "Bob", 1)}
		plan := PlanMerge(existing, incoming, 2, MergeByRef)
		require.Len(t, plan.Inserts, 1)
		assert.Equal(t, "2024-01-03", plan.Inserts[0].Date.String())
	})

	t.Run("ref'd copy of a row held without a ref is a copy", func(t *testing.T) {
		bare := []model.Loan{loan(1, "2024-01-01", "Bob", 50)}
		incoming := []model.Loan{
			withRef(loan(1, "2024-01-01", "Bob", 50), "r9"),
			withRef(loan(2, "2024-01-01", "Bob", 50), "r10"),
		}
		plan := PlanMerge(bare, incoming, 2, MergeByRef)
		require.Len(t, plan.Skipped, 1)
		assert.Equal(t, "r9", plan.Skipped[0].Ref)
		require.Len(t, plan.Inserts, 1)
		assert.Equal(t, "r10", plan.Inserts[0].Ref)
		assert.Equal(t, int64(2), plan.Inserts[0].ID)
	})

	t.Run("tuple strategy ignores refs", func(t *testing.T) {
		incoming := []model.Loan{withRef(loan(1, "2024-01-01", "Bob", 50), "r2")}
		plan := PlanMerge(existing, incoming, 2, MergeByTuple)
		assert.Empty(t, plan.Inserts)
	})
}
