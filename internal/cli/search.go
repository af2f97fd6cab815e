package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/nimasrn/loanbook/internal/config"
	"github.com/nimasrn/loanbook/internal/render"
	"github.com/nimasrn/loanbook/internal/services"
)

type searchCmd struct {
	file string
	raw  bool
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "print what someone owes" }
func (*searchCmd) Usage() string {
	return `loanbook search [-f <file>] <name>

  Prints the balance of one person. Names match exactly.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Ledger file. Defaults to the first ledger found in LEDGER_DIR.")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal styling.")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("search needs exactly one name")
	}
	name := f.Arg(0)

	store, err := openLedger(ctx, c.file)
	if err != nil {
		return fail(err)
	}
	defer closeLedger(store)

	total, err := services.NewBalanceService(store).Balance(ctx, name)
	if err != nil {
		return fail(err)
	}
	return printMarkdown(render.Balance(name, total, config.Get().LedgerCurrency), c.raw)
}
