package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/nimasrn/loanbook/internal/render"
)

type combineCmd struct {
	raw bool
}

func (*combineCmd) Name() string     { return "combine" }
func (*combineCmd) Synopsis() string { return "fold another ledger into this one" }
func (*combineCmd) Usage() string {
	return `loanbook combine <old> <new>

  Copies every loan of <new> that <old> does not hold yet into <old>, under
  fresh ids, then deletes <new>. Loans are the same when their date, name
  and amount are equal (LEDGER_MERGE_KEY=ref matches on the row token
  instead). If anything fails <old> is left untouched.
`
}

func (c *combineCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal styling.")
}

func (c *combineCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usage("combine needs the old and the new ledger")
	}

	metrics := newMetrics()
	defer writeMetrics(metrics)

	svc, err := ledgerService(metrics)
	if err != nil {
		return fail(err)
	}
	report, err := svc.Combine(ctx, f.Arg(0), f.Arg(1))
	if err != nil {
		return fail(err)
	}
	return printMarkdown(render.MergeReport(report), c.raw)
}
