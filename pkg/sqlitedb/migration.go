package sqlitedb

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/nimasrn/loanbook/pkg/logger"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

func newProvider(db *sql.DB, fsys fs.FS, verbose bool) (*goose.Provider, error) {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys,
		goose.WithLogger(logger.GetLogger()),
		goose.WithVerbose(verbose),
	)
	if err != nil {
		return nil, errors.Wrap(err, "init migrations")
	}
	return provider, nil
}

// Migrate applies every pending migration found at the root of fsys. With
// verbose set goose reports each applied file through the package logger.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, verbose bool) error {
	provider, err := newProvider(db, fsys, verbose)
	if err != nil {
		return err
	}
	if _, err := provider.Up(ctx); err != nil {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

// Version reports the schema version currently recorded in db.
func Version(ctx context.Context, db *sql.DB, fsys fs.FS) (int64, error) {
	provider, err := newProvider(db, fsys, false)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}

// Current reports whether db already has every migration in fsys applied.
// A database goose never touched is not current.
func Current(ctx context.Context, db *sql.DB, fsys fs.FS) (bool, error) {
	provider, err := newProvider(db, fsys, false)
	if err != nil {
		return false, err
	}
	sources := provider.ListSources()
	if len(sources) == 0 {
		return true, nil
	}
	v, err := Version(ctx, db, fsys)
	if err != nil {
		return false, nil
	}
	return v >= sources[len(sources)-1].Version, nil
}
