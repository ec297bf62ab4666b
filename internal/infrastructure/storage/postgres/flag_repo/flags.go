// Package flag_repo implements flags.Repository over PostgreSQL.
package flag_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"openflag/internal/core/apperror"
	"openflag/internal/domain/flags"
	"openflag/internal/infrastructure/storage/postgres"
)

const flagsTable = "flags"

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

var flagColumns = []string{
	"id", "key", "name", "description", "type", "value", "enabled",
	"created_at", "updated_at",
}

// FlagRepo implements flags.Repository.
type FlagRepo struct {
	tx *postgres.TxManager
}

// NewFlagRepo creates a new flag repository.
func NewFlagRepo(tx *postgres.TxManager) *FlagRepo {
	return &FlagRepo{tx: tx}
}

var _ flags.Repository = (*FlagRepo)(nil)

func (r *FlagRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *FlagRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().Select(flagColumns...).From(flagsTable)
}

// Create inserts a new flag. A duplicate key maps to CodeDuplicate.
func (r *FlagRepo) Create(ctx context.Context, flag *flags.Flag) error {
	q := r.builder().
		Insert(flagsTable).
		Columns(flagColumns...).
		Values(flag.ID, flag.Key, flag.Name, flag.Description, flag.Type,
			flag.Value, flag.Enabled, flag.CreatedAt, flag.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewDuplicate("flag", "key", flag.Key)
		}
		return apperror.NewDatabase(fmt.Errorf("insert flag: %w", err))
	}
	return nil
}

// GetByID retrieves a flag by id.
func (r *FlagRepo) GetByID(ctx context.Context, id uuid.UUID) (*flags.Flag, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, id.String())
}

// GetByKey retrieves a flag by its unique key.
func (r *FlagRepo) GetByKey(ctx context.Context, key string) (*flags.Flag, error) {
	return r.getOne(ctx, squirrel.Eq{"key": key}, key)
}

func (r *FlagRepo) getOne(ctx context.Context, cond squirrel.Eq, ident string) (*flags.Flag, error) {
	q := r.baseSelect().Where(cond).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var flag flags.Flag
	if err := pgxscan.Get(ctx, r.tx.GetQuerier(ctx), &flag, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("flag", ident)
		}
		return nil, apperror.NewDatabase(fmt.Errorf("get flag: %w", err))
	}
	return &flag, nil
}

// List returns flags ordered by creation time.
func (r *FlagRepo) List(ctx context.Context, limit, offset int) ([]flags.Flag, error) {
	q := r.baseSelect().
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var result []flags.Flag
	if err := pgxscan.Select(ctx, r.tx.GetQuerier(ctx), &result, sql, args...); err != nil {
		return nil, apperror.NewDatabase(fmt.Errorf("list flags: %w", err))
	}
	return result, nil
}

// Update persists every mutable field of flag.
func (r *FlagRepo) Update(ctx context.Context, flag *flags.Flag) error {
	q := r.builder().
		Update(flagsTable).
		Set("name", flag.Name).
		Set("description", flag.Description).
		Set("type", flag.Type).
		Set("value", flag.Value).
		Set("enabled", flag.Enabled).
		Set("updated_at", flag.UpdatedAt).
		Where(squirrel.Eq{"id": flag.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("update flag: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("flag", flag.ID.String())
	}
	return nil
}

// Delete removes a flag by id.
func (r *FlagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	q := r.builder().Delete(flagsTable).Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	tag, err := r.tx.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(fmt.Errorf("delete flag: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("flag", id.String())
	}
	return nil
}

// ExistsByKey reports whether a flag with key exists.
func (r *FlagRepo) ExistsByKey(ctx context.Context, key string) (bool, error) {
	q := r.builder().Select("1").From(flagsTable).Where(squirrel.Eq{"key": key}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.tx.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, apperror.NewDatabase(fmt.Errorf("check flag key: %w", err))
	}
	return true, nil
}
