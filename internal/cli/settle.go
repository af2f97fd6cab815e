package cli

import (
	"context"
	"flag"
	"strconv"

	"github.com/google/subcommands"
	"github.com/nimasrn/loanbook/internal/config"
	"github.com/nimasrn/loanbook/internal/render"
	"github.com/nimasrn/loanbook/internal/services"
)

type settleCmd struct {
	file string
	raw  bool
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "record a repayment" }
func (*settleCmd) Usage() string {
	return `loanbook settle [-f <file>] <name> [<amount>]

  Without an amount, records a repayment of the whole balance so that it
  ends at zero. With an amount, records a repayment of that amount.
`
}

func (c *settleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Ledger file. Defaults to the first ledger found in LEDGER_DIR.")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal styling.")
}

func (c *settleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		return usage("settle needs a name and an optional amount")
	}
	name := f.Arg(0)
	var partial *float64
	if f.NArg() == 2 {
		p, err := strconv.ParseFloat(f.Arg(1), 64)
		if err != nil {
			return usage("amount %q is not a number", f.Arg(1))
		}
		partial = &p
	}

	store, err := openLedger(ctx, c.file)
	if err != nil {
		return fail(err)
	}
	defer closeLedger(store)

	metrics := newMetrics()
	defer writeMetrics(metrics)

	cfg := config.Get()
	svc := services.NewSettlementService(store, services.SettlementOptions{TruncatePartial: cfg.LedgerTruncatePartial}, metrics)
	loan, err := svc.Settle(ctx, name, partial)
	if err != nil {
		return fail(err)
	}
	return printMarkdown(render.Settlement(loan, cfg.LedgerCurrency), c.raw)
}
