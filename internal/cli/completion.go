package cli

import (
	"context"
	"os"
	"strings"

	"github.com/nimasrn/loanbook/internal/config"
	"github.com/nimasrn/loanbook/internal/repository"
	"github.com/nimasrn/loanbook/pkg/logger"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion. Install it
// with COMP_INSTALL=1 loanbook.
func Completion() *complete.Command {
	ledgers := predict.Files("*.db")
	names := complete.PredictFunc(predictNames)
	file := map[string]complete.Predictor{"f": ledgers, "raw": predict.Nothing}

	return &complete.Command{
		Flags: map[string]complete.Predictor{"env": predict.Files("*")},
		Sub: map[string]*complete.Command{
			"create": {Flags: map[string]complete.Predictor{"f": ledgers}},
			"add": {
				Flags: map[string]complete.Predictor{"f": ledgers, "d": predict.Nothing, "raw": predict.Nothing},
				Args:  names,
			},
			"display": {
				Flags: map[string]complete.Predictor{"f": ledgers, "name": names, "balances": predict.Nothing, "raw": predict.Nothing},
			},
			"search":  {Flags: file, Args: names},
			"settle":  {Flags: file, Args: names},
			"combine": {Flags: map[string]complete.Predictor{"raw": predict.Nothing}, Args: ledgers},
			"serve":   {Flags: map[string]complete.Predictor{"f": ledgers, "addr": predict.Nothing}},
		},
	}
}

// predictNames offers the people recorded in the default ledger. Flags are
// not parsed yet while the shell asks for candidates, so -env is read off the
// line being completed. The ledger is opened read only and skipped when its
// schema is behind.
func predictNames(prefix string) []string {
	if err := config.Load(EnvPath(envFromLine(os.Getenv("COMP_LINE")))); err != nil {
		return nil
	}
	path, err := resolve("")
	if err != nil {
		return nil
	}
	ctx := context.Background()
	store, err := repository.OpenStore(ctx, path, repository.StoreOptions{ReadOnly: true})
	if err != nil {
		logger.Debug("skipping ledger for completion", "path", path, "error", err)
		return nil
	}
	defer closeLedger(store)

	names, err := store.Names(ctx)
	if err != nil {
		return nil
	}
	return names
}

// envFromLine returns the value given to -env on a command line.
func envFromLine(line string) string {
	fields := strings.Fields(line)
	for i, f := range fields {
		if !strings.HasPrefix(f, "-") {
			continue
		}
		name, value, ok := strings.Cut(strings.TrimLeft(f, "-"), "=")
		if name != "env" {
			continue
		}
		if ok {
			return value
		}
		if i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}
