// Package render turns ledger data into markdown for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/nimasrn/loanbook/internal/model"
	"github.com/shopspring/decimal"
)

type builder struct {
	*strings.Builder
}

func newBuilder() builder {
	return builder{&strings.Builder{}}
}

func (b builder) Printf(format string, args ...any) {
	fmt.Fprintf(b, format, args...)
}

// cell keeps a value from breaking out of its table column.
func cell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}

// Loans renders rows as a table in the order given.
func Loans(loans []model.Loan, currency string) string {
	b := newBuilder()
	if len(loans) == 0 {
		b.Printf("_No loans recorded._\n")
		return b.String()
	}
	b.Printf("| ID | Date | Name | Amount |\n")
	b.Printf("|---:|:---|:---|---:|\n")
	for _, l := range loans {
		b.Printf("| %d | %s | %s | %s |\n", l.ID, l.Date, cell(l.Name), MoneyFromFloat(l.Amount, currency))
	}
	return b.String()
}

// Balances renders one line per counterparty and a grand total.
func Balances(balances []model.Balance, currency string) string {
	b := newBuilder()
	if len(balances) == 0 {
		b.Printf("_Nobody owes anything._\n")
		return b.String()
	}
	total := decimal.Zero
	b.Printf("| Name | Loans | Balance |\n")
	b.Printf("|:---|---:|---:|\n")
	for _, bal := range balances {
		b.Printf("| %s | %d | %s |\n", cell(bal.Name), bal.Count, Money(bal.Amount, currency))
		total = total.Add(bal.Amount)
	}
	b.Printf("| **Total** | | **%s** |\n", Money(total, currency))
	return b.String()
}

// Balance renders what name owes.
func Balance(name string, amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("**%s**: %s\n", cell(name), Money(amount, currency))
}

// Settlement renders the row a settlement appended.
func Settlement(l *model.Loan, currency string) string {
	return fmt.Sprintf("Recorded %s for **%s** on %s (id %d).\n", MoneyFromFloat(l.Amount, currency), cell(l.Name), l.Date, l.ID)
}

// MergeReport summarises a combine.
func MergeReport(r *model.MergeReport) string {
	b := newBuilder()
	b.Printf("## Combined %s into %s\n\n", r.Source, r.Target)
	b.Printf("- copied: %d\n", r.Inserted)
	b.Printf("- already present: %d\n", r.Skipped)
	if r.Inserted > 0 {
		b.Printf("- new ids: %d to %d\n", r.FirstID, r.LastID)
	}
	switch {
	case r.Removed:
		b.Printf("- %s removed\n", r.Source)
	case r.RemoveErr != nil:
		b.Printf("- **warning**: %s could not be removed: %v\n", r.Source, r.RemoveErr)
	}
	return b.String()
}

// Print writes md to w, styled for the terminal unless raw is set.
func Print(w io.Writer, md string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
