package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"iter"

	"github.com/google/uuid"
	"github.com/nimasrn/loanbook/internal/model"
	"github.com/nimasrn/loanbook/pkg/sqlitedb"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrations returns the ledger schema migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// StoreOptions controls how a ledger file is opened.
type StoreOptions struct {
	Debug bool
	// ReadOnly opens without migrating; files on an older schema are refused.
	ReadOnly bool
}

func (o StoreOptions) sqlite() sqlitedb.Options {
	return sqlitedb.Options{Migrations: Migrations(), Debug: o.Debug, ReadOnly: o.ReadOnly}
}

// LoanRepository is the record store of one ledger file.
type LoanRepository struct {
	*sqlitedb.DB
	newRef func() string
}

func NewLoanRepository(db *sqlitedb.DB) *LoanRepository {
	return &LoanRepository{
		DB:     db,
		newRef: uuid.NewString,
	}
}

// Initialize creates a new, empty ledger at path. It fails with
// model.ErrAlreadyExists when a file is already there.
func Initialize(ctx context.Context, path string, opts StoreOptions) (*LoanRepository, error) {
	db, err := sqlitedb.Create(ctx, path, opts.sqlite())
	if err != nil {
		return nil, storeErr(err)
	}
	return NewLoanRepository(db), nil
}

// OpenStore opens the existing ledger at path. It fails with
// model.ErrNotFound when there is no file. A ledger from before ids were
// stored is upgraded in place, numbering its rows in storage order.
func OpenStore(ctx context.Context, path string, opts StoreOptions) (*LoanRepository, error) {
	db, err := sqlitedb.Open(ctx, path, opts.sqlite())
	if err != nil {
		return nil, storeErr(err)
	}
	return NewLoanRepository(db), nil
}

func storeErr(err error) error {
	switch {
	case errors.Is(err, sqlitedb.ErrDatabaseNotFound):
		return fmt.Errorf("%w: %w", model.ErrNotFound, err)
	case errors.Is(err, sqlitedb.ErrDatabaseExists):
		return fmt.Errorf("%w: %w", model.ErrAlreadyExists, err)
	default:
		return fmt.Errorf("%w: %w", model.ErrIO, err)
	}
}

func ioErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, model.ErrIO, err)
}

// MaxID returns the highest id in the ledger, 0 when it is empty.
func (r *LoanRepository) MaxID(ctx context.Context) (int64, error) {
	var maxID int64
	err := r.Read(ctx).WithContext(ctx).
		Model(&LoanEntity{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).
		Error
	if err != nil {
		return 0, ioErr("max id", err)
	}
	return maxID, nil
}

// Append records a new row under the next free id (max id + 1).
func (r *LoanRepository) Append(ctx context.Context, p model.LoanCreateRequest) (*model.Loan, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var created *model.Loan
	err := r.WithinTransaction(ctx, func(ctx context.Context) error {
		maxID, err := r.MaxID(ctx)
		if err != nil {
			return err
		}
		loan := model.Loan{
			ID:     maxID + 1,
			Date:   p.Date,
			Name:   p.Name,
			Amount: p.Amount,
			Ref:    r.newRef(),
		}
		if err := r.Insert(ctx, loan); err != nil {
			return err
		}
		created = &loan
		return nil
	})
	if err != nil {
		if errors.Is(err, model.ErrIO) {
			return nil, err
		}
		return nil, ioErr("append loan", err)
	}
	return created, nil
}

// Insert writes loan under the id it already carries. Callers own id
// assignment; a clash with an existing id is reported as an error.
func (r *LoanRepository) Insert(ctx context.Context, loan model.Loan) error {
	if loan.ID <= 0 {
		return fmt.Errorf("%w: loan id must be positive, got %d", model.ErrInvalidArgument, loan.ID)
	}
	if err := r.Write(ctx).WithContext(ctx).Create(toLoanEntity(&loan)).Error; err != nil {
		return ioErr(fmt.Sprintf("insert loan %d", loan.ID), err)
	}
	return nil
}

// All yields every row in storage order (ascending id). The sequence reads
// lazily and can be ranged over again; drain it before writing to the same
// ledger.
func (r *LoanRepository) All(ctx context.Context) iter.Seq2[model.Loan, error] {
	return r.stream(ctx, func(q *gorm.DB) *gorm.DB { return q })
}

// Where yields the rows whose name equals name exactly.
func (r *LoanRepository) Where(ctx context.Context, name string) iter.Seq2[model.Loan, error] {
	return r.stream(ctx, func(q *gorm.DB) *gorm.DB { return q.Where("name = ?", name) })
}

func (r *LoanRepository) stream(ctx context.Context, scope func(*gorm.DB) *gorm.DB) iter.Seq2[model.Loan, error] {
	return func(yield func(model.Loan, error) bool) {
		db := r.Read(ctx).WithContext(ctx)
		rows, err := scope(db.Model(&LoanEntity{})).Order("id ASC").Rows()
		if err != nil {
			yield(model.Loan{}, ioErr("list loans", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var e LoanEntity
			if err := db.ScanRows(rows, &e); err != nil {
				yield(model.Loan{}, ioErr("scan loan", err))
				return
			}
			if !yield(*toLoanModel(&e), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(model.Loan{}, ioErr("list loans", err))
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[model.Loan, error]) ([]model.Loan, error) {
	var out []model.Loan
	for loan, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, loan)
	}
	return out, nil
}

// List returns the rows matching f in storage order, and how many rows match
// before the limit is applied.
func (r *LoanRepository) List(ctx context.Context, f model.LoanFilter) ([]model.Loan, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&LoanEntity{})

	if f.Name != nil {
		q = q.Where("name = ?", *f.Name)
	}
	if f.From != nil {
		q = q.Where("date >= ?", f.From.String())
	}
	if f.To != nil {
		q = q.Where("date <= ?", f.To.String())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, ioErr("count loans", err)
	}

	q = q.Order("id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var entities []*LoanEntity
	if err := q.Find(&entities).Error; err != nil {
		return nil, 0, ioErr("list loans", err)
	}
	return toLoanModels(entities), total, nil
}

// Names returns every distinct counterparty, sorted.
func (r *LoanRepository) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := r.Read(ctx).WithContext(ctx).
		Model(&LoanEntity{}).
		Distinct("name").
		Order("name ASC").
		Pluck("name", &names).
		Error
	if err != nil {
		return nil, ioErr("list names", err)
	}
	return names, nil
}
