// Package ledgerfile names ledger files and finds them on disk. The record
// store itself only ever receives a resolved path.
package ledgerfile

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/nimasrn/loanbook/internal/model"
	"github.com/nimasrn/loanbook/pkg/date"
)

// DefaultName is the file name given to a ledger created on day.
func DefaultName(day date.Date) string {
	return "loans_" + day.String() + ".db"
}

// Locate returns the first file in dir matching pattern, in lexical order.
func Locate(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("%w: bad ledger pattern %q: %w", model.ErrInvalidArgument, pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no ledger matching %q in %s", model.ErrNotFound, pattern, dir)
	}
	sort.Strings(matches)
	return matches[0], nil
}

// Resolve returns explicit when set, otherwise the discovered ledger.
func Resolve(explicit, dir, pattern string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return Locate(dir, pattern)
}
