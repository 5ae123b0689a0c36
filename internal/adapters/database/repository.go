package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"

	"github.com/hbnb/hbnb-api/internal/domain/entities"
	"github.com/hbnb/hbnb-api/internal/domain/repositories"
	"github.com/hbnb/hbnb-api/internal/infrastructure/clients/sqldb"
	apperrors "github.com/hbnb/hbnb-api/pkg/errors"
)

// Adapter implements repositories.Repository on top of a SQL database
type Adapter struct {
	client  *sqldb.Client
	db      *goqu.Database
	migrate func(ctx context.Context) error
	now     func() time.Time
}

// Option customizes an Adapter
type Option func(*Adapter)

// WithMigrator replaces the schema migration run by Reload
func WithMigrator(migrate func(ctx context.Context) error) Option {
	return func(a *Adapter) {
		a.migrate = migrate
	}
}

// WithClock replaces the clock used for seeded records
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		a.now = now
	}
}

// NewAdapter creates a new SQL repository adapter
func NewAdapter(client *sqldb.Client, opts ...Option) *Adapter {
	a := &Adapter{
		client: client,
		db:     goqu.New(client.Driver(), client.DB()),
		now:    time.Now,
	}
	a.migrate = func(ctx context.Context) error {
		return Migrate(ctx, client)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ repositories.Repository = (*Adapter)(nil)

// GetAll lists a table ordered by creation time
func (a *Adapter) GetAll(ctx context.Context, kind entities.Kind) ([]entities.Entity, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, apperrors.NewInternalError("unknown entity kind", err)
	}

	query, args, err := a.db.Select(t.columns...).
		From(t.name).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to list %s", kind), err)
	}
	defer rows.Close()

	var out []entities.Entity
	for rows.Next() {
		e, err := t.scan(rows)
		if err != nil {
			return nil, apperrors.NewInternalError(fmt.Sprintf("failed to scan %s", kind), err)
		}
		out = append(out, normalized(e))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to list %s", kind), err)
	}

	return out, nil
}

// Get is a primary key lookup
func (a *Adapter) Get(ctx context.Context, kind entities.Kind, id string) (entities.Entity, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, apperrors.NewInternalError("unknown entity kind", err)
	}

	query, args, err := a.db.Select(t.columns...).
		From(t.name).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	e, err := t.scan(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to get %s", kind), err)
	}

	return normalized(e), nil
}

// Save inserts the entity in its own transaction
func (a *Adapter) Save(ctx context.Context, entity entities.Entity) error {
	if entity == nil {
		return apperrors.NewInternalError("cannot save nil entity", fmt.Errorf("nil entity"))
	}

	t, err := tableFor(entity.Kind())
	if err != nil {
		return apperrors.NewInternalError("unknown entity kind", err)
	}

	query, args, err := a.db.Insert(t.name).Rows(t.record(entity)).Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.execInTx(ctx, query, args); err != nil {
		return classify(err, fmt.Sprintf("failed to save %s", entity.Kind()))
	}
	return nil
}

// Update rewrites every mutable column of the entity's row
func (a *Adapter) Update(ctx context.Context, entity entities.Entity) error {
	if entity == nil {
		return apperrors.NewInternalError("cannot update nil entity", fmt.Errorf("nil entity"))
	}

	t, err := tableFor(entity.Kind())
	if err != nil {
		return apperrors.NewInternalError("unknown entity kind", err)
	}

	record := t.record(entity)
	delete(record, "id")
	delete(record, "created_at")

	query, args, err := a.db.Update(t.name).
		Set(record).
		Where(goqu.Ex{"id": entity.GetID()}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	affected, err := a.execInTx(ctx, query, args)
	if err != nil {
		return classify(err, fmt.Sprintf("failed to update %s", entity.Kind()))
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", entity.Kind(), entity.GetID()))
	}
	return nil
}

// Delete removes the entity's row and reports whether it existed
func (a *Adapter) Delete(ctx context.Context, entity entities.Entity) (bool, error) {
	if entity == nil {
		return false, nil
	}

	t, err := tableFor(entity.Kind())
	if err != nil {
		return false, apperrors.NewInternalError("unknown entity kind", err)
	}

	query, args, err := a.db.Delete(t.name).
		Where(goqu.Ex{"id": entity.GetID()}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, apperrors.NewInternalError("failed to build delete query", err)
	}

	affected, err := a.execInTx(ctx, query, args)
	if err != nil {
		return false, classify(err, fmt.Sprintf("failed to delete %s", entity.Kind()))
	}
	return affected > 0, nil
}

// Reload migrates the schema and seeds bootstrap countries. Existing rows are kept.
func (a *Adapter) Reload(ctx context.Context) error {
	if a.migrate != nil {
		if err := a.migrate(ctx); err != nil {
			return apperrors.NewInternalError("failed to migrate schema", err)
		}
	}
	return repositories.SeedCountries(ctx, a, a.now())
}

// execInTx runs a single statement in its own transaction and returns the
// number of affected rows
func (a *Adapter) execInTx(ctx context.Context, query string, args []any) (int64, error) {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return affected, nil
}

// drivers return timestamps in the session zone; keep everything in UTC
func normalized(e entities.Entity) entities.Entity {
	b := e.GetBase()
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return e
}
