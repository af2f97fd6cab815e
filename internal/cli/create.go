package cli

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/nimasrn/loanbook/internal/config"
	"github.com/nimasrn/loanbook/internal/ledgerfile"
	"github.com/nimasrn/loanbook/pkg/date"
)

type createCmd struct {
	file string
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a new, empty ledger" }
func (*createCmd) Usage() string {
	return `loanbook create [-f <file>]

  Creates an empty ledger. Without -f the file is named after today's date
  inside LEDGER_DIR, e.g. loans_2024-01-31.db. An existing file is never
  overwritten.
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Path of the ledger file to create.")
}

func (c *createCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		return usage("create takes no arguments")
	}
	path := c.file
	if path == "" {
		path = filepath.Join(config.Get().LedgerDir, ledgerfile.DefaultName(date.Today()))
	}

	svc, err := ledgerService(nil)
	if err != nil {
		return fail(err)
	}
	store, err := svc.Create(ctx, path)
	if err != nil {
		return fail(err)
	}
	closeLedger(store)

	fmt.Fprintf(stdout, "Created ledger %s\n", path)
	return subcommands.ExitSuccess
}
