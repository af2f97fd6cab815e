package sqlitedb

import (
	"io/fs"
	"net/url"
	"strconv"
)

// Options controls how a database file is opened.
type Options struct {
	// Migrations holds goose SQL migrations at its root. Nil skips migration.
	Migrations fs.FS
	// Debug logs every statement gorm runs.
	Debug bool
	// BusyTimeoutMs is how long sqlite waits on a locked file before failing.
	BusyTimeoutMs int
	// ReadOnly refuses writes on the connection. Migrations are not applied;
	// a file whose schema is behind them fails with ErrSchemaOutdated.
	ReadOnly bool
}

func dsn(path string, opts Options) string {
	busy := opts.BusyTimeoutMs
	if busy <= 0 {
		busy = 5000
	}
	q := url.Values{}
	q.Set("_busy_timeout", strconv.Itoa(busy))
	q.Set("_foreign_keys", "on")
	if opts.ReadOnly {
		q.Set("_query_only", "true")
		return path + "?" + q.Encode()
	}
	// take the write lock when the transaction begins, not at the first write
	q.Set("_txlock", "immediate")
	return path + "?" + q.Encode()
}
