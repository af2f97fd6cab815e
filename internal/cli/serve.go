package cli

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"github.com/nimasrn/loanbook/internal/config"
	"github.com/nimasrn/loanbook/internal/handlers"
	"github.com/nimasrn/loanbook/internal/repository"
	"github.com/nimasrn/loanbook/internal/services"
	xhttp "github.com/nimasrn/loanbook/pkg/http"
	"github.com/nimasrn/loanbook/pkg/logger"
	"github.com/nimasrn/loanbook/pkg/prom"
)

type serveCmd struct {
	file string
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve a read-only JSON view of the ledger" }
func (*serveCmd) Usage() string {
	return `loanbook serve [-f <file>] [-addr <host:port>]

  Serves the ledger over HTTP until interrupted:

    GET /api/v1/loans?name=&from=&to=&limit=
    GET /api/v1/balances
    GET /api/v1/balances/{name}
    GET /api/v1/health
    GET /metrics

  Nothing can be written through it.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Ledger file. Defaults to the first ledger found in LEDGER_DIR.")
	f.StringVar(&c.addr, "addr", "", "Listen address. Defaults to HTTP_LISTEN_ADDR.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		return usage("serve takes no arguments")
	}
	addr := c.addr
	if addr == "" {
		addr = config.Get().HttpListenAddr
	}

	store, err := openLedger(ctx, c.file)
	if err != nil {
		return fail(err)
	}
	defer closeLedger(store)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := newEngine(store, newMetrics())
	errs := make(chan error, 1)
	go func() {
		errs <- s.ListenAndServe(addr)
	}()

	select {
	case err := <-errs:
		if err != nil {
			return fail(err)
		}
	case <-ctx.Done():
		s.Shutdown()
	}
	return subcommands.ExitSuccess
}

// newEngine wires the read-only routes for store.
func newEngine(store *repository.LoanRepository, metrics *prom.Metrics) *xhttp.Engine {
	cfg := config.Get()

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.TimeoutMiddleware(cfg.HttpRequestTimeout))

	ledgerHandler := handlers.NewLedgerHandler(store, services.NewBalanceService(store), cfg.LedgerCurrency)
	healthHandler := handlers.NewHealthHandler(store)

	g := s.Router.Group("/api/v1")
	handlers.RegisterLedgerRoutes(g, ledgerHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)
	if metrics != nil {
		s.Router.GET("/metrics", metrics.Handler())
	}

	logger.Debug("serving ledger", "path", store.Path())
	return s
}
