// Package cli implements the loanbook commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/nimasrn/loanbook/internal/config"
	"github.com/nimasrn/loanbook/internal/ledgerfile"
	"github.com/nimasrn/loanbook/internal/model"
	"github.com/nimasrn/loanbook/internal/render"
	"github.com/nimasrn/loanbook/internal/repository"
	"github.com/nimasrn/loanbook/internal/services"
	"github.com/nimasrn/loanbook/pkg/logger"
	"github.com/nimasrn/loanbook/pkg/prom"
)

// Register adds every loanbook command to c.
func Register(c *subcommands.Commander) {
	c.Register(&createCmd{}, "ledger")
	c.Register(&combineCmd{}, "ledger")

	c.Register(&addCmd{}, "loans")
	c.Register(&settleCmd{}, "loans")

	c.Register(&displayCmd{}, "reports")
	c.Register(&searchCmd{}, "reports")
	c.Register(&serveCmd{}, "reports")
}

// Command output goes to stdout, diagnostics to stderr.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func storeOptions() repository.StoreOptions {
	return repository.StoreOptions{Debug: config.Get().LedgerDBDebug}
}

func ledgerService(metrics services.Recorder) (*services.LedgerService, error) {
	strategy, err := services.ParseMergeStrategy(config.Get().LedgerMergeKey)
	if err != nil {
		return nil, err
	}
	return services.NewLedgerService(storeOptions(), services.NewMergeService(strategy, metrics)), nil
}

// EnvPath picks the .env file to load: the explicit one, else ./.env when
// it exists.
func EnvPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(".env"); err == nil {
		return ".env"
	}
	return ""
}

// resolve turns the -f flag into a ledger path, discovering one when unset.
func resolve(explicit string) (string, error) {
	cfg := config.Get()
	return ledgerfile.Resolve(explicit, cfg.LedgerDir, cfg.LedgerFilePattern)
}

func openLedger(ctx context.Context, explicit string) (*repository.LoanRepository, error) {
	path, err := resolve(explicit)
	if err != nil {
		return nil, err
	}
	logger.Debug("opening ledger", "path", path)
	return repository.OpenStore(ctx, path, storeOptions())
}

func closeLedger(store *repository.LoanRepository) {
	if err := store.Close(); err != nil {
		logger.Warn("closing ledger failed", "path", store.Path(), "error", err)
	}
}

// newMetrics returns the process metrics. A nil result records nothing.
func newMetrics() *prom.Metrics {
	cfg := config.Get()
	m, err := prom.Create(cfg.PromNamespace, cfg.AppEnv)
	if err != nil {
		logger.Warn("metrics disabled", "error", err)
		return nil
	}
	return m
}

func writeMetrics(m *prom.Metrics) {
	path := config.Get().LedgerMetricsFile
	if err := m.WriteTextfile(path); err != nil {
		logger.Warn("writing metrics file failed", "path", path, "error", err)
	}
}

// fail reports err and picks the exit status for it.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "loanbook: %v\n", err)
	if errors.Is(err, model.ErrInvalidArgument) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

func usage(format string, args ...any) subcommands.ExitStatus {
	return fail(fmt.Errorf("%w: "+format, append([]any{model.ErrInvalidArgument}, args...)...))
}

func printMarkdown(md string, raw bool) subcommands.ExitStatus {
	if err := render.Print(stdout, md, raw); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
