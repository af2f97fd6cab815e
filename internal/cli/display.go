package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/nimasrn/loanbook/internal/config"
	"github.com/nimasrn/loanbook/internal/model"
	"github.com/nimasrn/loanbook/internal/render"
	"github.com/nimasrn/loanbook/internal/services"
)

type displayCmd struct {
	file     string
	name     string
	balances bool
	raw      bool
}

func (*displayCmd) Name() string     { return "display" }
func (*displayCmd) Synopsis() string { return "print the ledger" }
func (*displayCmd) Usage() string {
	return `loanbook display [-f <file>] [-name <name>] [-balances] [-raw]

  Prints every row of the ledger in the order it was recorded, or only the
  rows of one person with -name. With -balances prints what everybody owes
  instead.
`
}

func (c *displayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Ledger file. Defaults to the first ledger found in LEDGER_DIR.")
	f.StringVar(&c.name, "name", "", "Only show rows for this person.")
	f.BoolVar(&c.balances, "balances", false, "Show one balance per person instead of the rows.")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal styling.")
}

func (c *displayCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		return usage("display takes no arguments")
	}
	store, err := openLedger(ctx, c.file)
	if err != nil {
		return fail(err)
	}
	defer closeLedger(store)

	currency := config.Get().LedgerCurrency
	if c.balances {
		balances, err := services.NewBalanceService(store).Balances(ctx)
		if err != nil {
			return fail(err)
		}
		return printMarkdown(render.Balances(balances, currency), c.raw)
	}

	var filter model.LoanFilter
	if c.name != "" {
		filter.Name = &c.name
	}
	loans, _, err := store.List(ctx, filter)
	if err != nil {
		return fail(err)
	}
	return printMarkdown(render.Loans(loans, currency), c.raw)
}
