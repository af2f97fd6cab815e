package model

import "time"

// MergeReport describes the outcome of folding one ledger into another.
type MergeReport struct {
	Target   string        `json:"target"`
	Source   string        `json:"source"`
	Inserted int           `json:"inserted"`
	Skipped  int           `json:"skipped"`
	FirstID  int64         `json:"first_id,omitempty"` // first id given to a copied row
	LastID   int64         `json:"last_id,omitempty"`
	Duration time.Duration `json:"duration"`
	// Removed is set once the source file is gone. RemoveErr holds the
	// reason it could not be removed; the merge itself still stands.
	Removed   bool  `json:"removed"`
	RemoveErr error `json:"-"`
}
