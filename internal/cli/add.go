package cli

import (
	"context"
	"flag"
	"strconv"

	"github.com/google/subcommands"
	"github.com/nimasrn/loanbook/internal/config"
	"github.com/nimasrn/loanbook/internal/model"
	"github.com/nimasrn/loanbook/internal/render"
	"github.com/nimasrn/loanbook/internal/services"
	"github.com/nimasrn/loanbook/pkg/date"
)

type addCmd struct {
	file string
	date string
	raw  bool
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record money lent to someone" }
func (*addCmd) Usage() string {
	return `loanbook add [-f <file>] [-d <date>] <name> <amount>

  Appends a loan to the ledger. A negative amount records money received.
  The date defaults to today.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Ledger file. Defaults to the first ledger found in LEDGER_DIR.")
	f.StringVar(&c.date, "d", "", "Date of the loan (YYYY-MM-DD). Defaults to today.")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal styling.")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usage("add needs a name and an amount")
	}
	name := f.Arg(0)
	amount, err := strconv.ParseFloat(f.Arg(1), 64)
	if err != nil {
		return usage("amount %q is not a number", f.Arg(1))
	}
	on := date.Today()
	if c.date != "" {
		if on, err = date.Parse(c.date); err != nil {
			return usage("%v", err)
		}
	}

	store, err := openLedger(ctx, c.file)
	if err != nil {
		return fail(err)
	}
	defer closeLedger(store)

	metrics := newMetrics()
	defer writeMetrics(metrics)

	loan, err := services.NewLoanService(store, metrics).Add(ctx, model.LoanCreateRequest{
		Date:   on,
		Name:   name,
		Amount: amount,
	})
	if err != nil {
		return fail(err)
	}
	return printMarkdown(render.Loans([]model.Loan{*loan}, config.Get().LedgerCurrency), c.raw)
}
