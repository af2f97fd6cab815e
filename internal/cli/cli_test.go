package cli

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/nimasrn/loanbook/internal/config"
	"github.com/nimasrn/loanbook/internal/ledgerfile"
	"github.com/nimasrn/loanbook/pkg/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func setupConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	config.Set(&config.Config{
		AppEnv:             "test",
		LedgerDir:          dir,
		LedgerFilePattern:  "loans_*.db",
		LedgerCurrency:     "USD",
		LedgerMergeKey:     "tuple",
		LedgerMetricsFile:  filepath.Join(dir, "loanbook.prom"),
		PromNamespace:      "loanbook",
		HttpRequestTimeout: time.Second,
	})
	return dir
}

func run(t *testing.T, cmd subcommands.Command, args ...string) (subcommands.ExitStatus, string, string) {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	require.NoError(t, f.Parse(args))

	var out, errOut bytes.Buffer
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = os.Stdout, os.Stderr })

	status := cmd.Execute(context.Background(), f)
	return status, out.String(), errOut.String()
}

func TestCreate(t *testing.T) {
	dir := setupConfig(t)

	status, out, _ := run(t, &createCmd{})
	require.Equal(t, subcommands.ExitSuccess, status)
	path := filepath.Join(dir, ledgerfile.DefaultName(date.Today()))
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	status, _, errOut := run(t, &createCmd{})
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, errOut, "already exists")

	status, _, _ = run(t, &createCmd{}, "extra")
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestLoanLifecycle(t *testing.T) {
	setupConfig(t)
	status, _, _ := run(t, &createCmd{})
	require.Equal(t, subcommands.ExitSuccess, status)

	status, out, _ := run(t, &addCmd{}, "-raw", "-d", "2024-01-01", "Bob", "50")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "| 1 | 2024-01-01 | Bob | $50.00 |")

	status, out, _ = run(t, &searchCmd{}, "-raw", "Bob")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, "**Bob**: $50.00\n", out)

	status, out, _ = run(t, &settleCmd{}, "-raw", "Bob", "20")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "-$20.00")

	_, out, _ = run(t, &searchCmd{}, "-raw", "Bob")
	assert.Equal(t, "**Bob**: $30.00\n", out)

	status, _, _ = run(t, &settleCmd{}, "-raw", "Bob")
	require.Equal(t, subcommands.ExitSuccess, status)

	_, out, _ = run(t, &searchCmd{}, "-raw", "Bob")
	assert.Equal(t, "**Bob**: $0.00\n", out)

	status, out, _ = run(t, &displayCmd{}, "-raw", "-name", "Bob")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "| 3 |")

	status, out, _ = run(t, &displayCmd{}, "-raw", "-balances")
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "| Bob | 3 | $0.00 |")
}

func TestUsageErrors(t *testing.T) {
	setupConfig(t)
	run(t, &createCmd{})

	tests := []struct {
		name string
		cmd  subcommands.Command
		args []string
	}{
		{"add without amount", &addCmd{}, []string{"Bob"}},
		{"add with a bad amount", &addCmd{}, []string{"Bob", "fifty"}},
		{"add with a bad date", &addCmd{}, []string{"-d", "01/02/2024", "Bob", "5"}},
		{"add with a blank name", &addCmd{}, []string{" ", "5"}},
		{"settle with a bad amount", &settleCmd{}, []string{"Bob", "all"}},
		{"search without a name", &searchCmd{}, nil},
		{"combine one ledger", &combineCmd{}, []string{"a.db"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, errOut := run(t, tt.cmd, tt.args...)
			assert.Equal(t, subcommands.ExitUsageError, status)
			assert.Contains(t, errOut, "invalid argument")
		})
	}
}

func TestMissingLedger(t *testing.T) {
	setupConfig(t)

	status, _, errOut := run(t, &displayCmd{})
	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, errOut, "not found")
}

func TestCombine(t *testing.T) {
	dir := setupConfig(t)
	oldPath := filepath.Join(dir, "loans_2024-01-01.db")
	newPath := filepath.Join(dir, "loans_2024-01-02.db")

	for _, p := range []string{oldPath, newPath} {
		status, _, _ := run(t, &createCmd{}, "-f", p)
		require.Equal(t, subcommands.ExitSuccess, status)
	}
	run(t, &addCmd{}, "-f", oldPath, "-d", "2024-01-01", "Bob", "50")
	run(t, &addCmd{}, "-f", newPath, "-d", "2024-01-01", "Bob", "50")
	run(t, &addCmd{}, "-f", newPath, "-d", "2024-01-02", "Bob", "10")

	status, out, _ := run(t, &combineCmd{}, "-raw", oldPath, newPath)
	require.Equal(t, subcommands.ExitSuccess, status)
	assert.Contains(t, out, "copied: 1")
	assert.Contains(t, out, "already present: 1")
	assert.NoFileExists(t, newPath)

	_, out, _ = run(t, &searchCmd{}, "-raw", "-f", oldPath, "Bob")
	assert.Equal(t, "**Bob**: $60.00\n", out)

	metrics, err := os.ReadFile(filepath.Join(dir, "loanbook.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "loanbook_merge_inserted_total")

	status, _, _ = run(t, &combineCmd{}, oldPath, oldPath)
	assert.Equal(t, subcommands.ExitUsageError, status)
}

func TestServeRoutes(t *testing.T) {
	setupConfig(t)
	run(t, &createCmd{})
	run(t, &addCmd{}, "-d", "2024-01-01", "Bob", "50")

	store, err := openLedger(context.Background(), "")
	require.NoError(t, err)
	defer closeLedger(store)

	s := newEngine(store, newMetrics())

	get := func(uri string) *fasthttp.RequestCtx {
		ctx := &fasthttp.RequestCtx{}
		ctx.Request.Header.SetMethod("GET")
		ctx.Request.SetRequestURI(uri)
		s.Router.Handler(ctx)
		return ctx
	}

	ctx := get("/api/v1/balances/Bob")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"name":"Bob","balance":"50","currency":"USD"}`, string(ctx.Response.Body()))

	ctx = get("/api/v1/loans?name=Bob")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `"total":1`)

	ctx = get("/api/v1/health")
	assert.Equal(t, "success", string(ctx.Response.Body()))

	ctx = get("/metrics")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	ctx = get("/api/v1/unknown")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, name := range []string{"create", "add", "display", "search", "settle", "combine", "serve"} {
		assert.Contains(t, c.Sub, name)
	}
}

func TestEnvFromLine(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"loanbook search B", ""},
		{"loanbook -env conf/.env search B", "conf/.env"},
		{"loanbook --env=conf/.env search B", "conf/.env"},
		{"loanbook -v -env=x.env settle", "x.env"},
		{"loanbook -environment y search", ""},
		{"loanbook -env", ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, envFromLine(tt.line))
		})
	}
}

func TestPredictNames(t *testing.T) {
	dir := setupConfig(t)
	status, _, _ := run(t, &createCmd{})
	require.Equal(t, subcommands.ExitSuccess, status)
	status, _, _ = run(t, &addCmd{}, "Bob", "50")
	require.Equal(t, subcommands.ExitSuccess, status)

	envFile := filepath.Join(t.TempDir(), "completion.env")
	require.NoError(t, os.WriteFile(envFile, []byte("LEDGER_DIR="+dir+"\n"), 0o644))
	t.Setenv("LEDGER_DIR", "")
	require.NoError(t, os.Unsetenv("LEDGER_DIR"))
	t.Setenv("COMP_LINE", "loanbook -env "+envFile+" search ")

	t.Run("reads the ledger named by -env", func(t *testing.T) {
		assert.Equal(t, []string{"Bob"}, predictNames(""))
	})

	t.Run("leaves an outdated ledger untouched", func(t *testing.T) {
		path, err := ledgerfile.Resolve("", dir, "loans_*.db")
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		db, err := sql.Open("sqlite3", path)
		require.NoError(t, err)
		_, err = db.Exec("CREATE TABLE loans (date text, name text, amount real); INSERT INTO loans VALUES ('2023-01-01', 'Old', 5)")
		require.NoError(t, err)
		require.NoError(t, db.Close())
		before, err := os.ReadFile(path)
		require.NoError(t, err)

		assert.Nil(t, predictNames(""))

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}
