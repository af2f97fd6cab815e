// Package sqlitedb opens single-file sqlite databases through gorm and carries
// the active transaction in the request context.
package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var (
	ErrDatabaseNotFound = errors.New("database file does not exist")
	ErrDatabaseExists   = errors.New("database file already exists")
	ErrSchemaOutdated   = errors.New("database schema is not current")
)

// txContextKey is scoped to one DB so that a transaction opened on one
// ledger file is never picked up by calls against another.
type txContextKey struct{ db *DB }

type DB struct {
	path string
	conn *gorm.DB
}

// Open opens an existing database file and migrates it to the latest schema.
// With opts.ReadOnly the file is left as it is and must already be current.
func Open(ctx context.Context, path string, opts Options) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.Wrapf(ErrDatabaseNotFound, "open %s", path)
		}
		return nil, pkgerrors.Wrapf(err, "open %s", path)
	}
	return open(ctx, path, opts)
}

// Create creates a new database file and applies the migrations to it.
// It refuses to touch a file that is already there.
func Create(ctx context.Context, path string, opts Options) (*DB, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, pkgerrors.Wrapf(ErrDatabaseExists, "create %s", path)
		}
		return nil, pkgerrors.Wrapf(err, "create %s", path)
	}
	if err := f.Close(); err != nil {
		return nil, pkgerrors.Wrapf(err, "create %s", path)
	}

	db, err := open(ctx, path, opts)
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}
	return db, nil
}

func open(ctx context.Context, path string, opts Options) (*DB, error) {
	level := gormlogger.Silent
	if opts.Debug {
		level = gormlogger.Info
	}
	conn, err := gorm.Open(sqlite.Open(dsn(path, opts)), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open %s", path)
	}

	db := &DB{path: path, conn: conn}
	if opts.Migrations == nil {
		return db, nil
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open %s", path)
	}
	if opts.ReadOnly {
		current, err := Current(ctx, sqlDB, opts.Migrations)
		if err == nil && !current {
			err = ErrSchemaOutdated
		}
		if err != nil {
			_ = sqlDB.Close()
			return nil, pkgerrors.Wrapf(err, "open %s", path)
		}
		return db, nil
	}
	if err := Migrate(ctx, sqlDB, opts.Migrations, opts.Debug); err != nil {
		_ = sqlDB.Close()
		return nil, pkgerrors.Wrapf(err, "migrate %s", path)
	}
	return db, nil
}

// Path returns the file backing db.
func (r *DB) Path() string { return r.path }

// Close releases the underlying connection pool.
func (r *DB) Close() error {
	sqlDB, err := r.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithinTransaction runs fn in a transaction. Store calls made with the ctx
// handed to fn join it; returning an error rolls everything back. A call made
// while a transaction is already active simply joins the outer one.
func (r *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{r}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return r.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{r}, tx))
	})
}

func (r *DB) Write(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txContextKey{r}).(*gorm.DB)
	if ok {
		return tx
	}
	return r.conn.WithContext(ctx)
}

func (r *DB) Read(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txContextKey{r}).(*gorm.DB)
	if ok {
		return tx
	}
	return r.conn.WithContext(ctx)
}

// SQL exposes the database/sql handle, e.g. for schema inspection.
func (r *DB) SQL() (*sql.DB, error) {
	return r.conn.DB()
}

// Ping checks that the file can still be reached.
func (r *DB) Ping(ctx context.Context) error {
	sqlDB, err := r.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
