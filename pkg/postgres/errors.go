package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/db"
)

// SQLSTATE codes the store reacts to
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

// translateError maps driver errors onto the db sentinels and wraps anything else
func translateError(err error, action string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return db.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			return db.UniqueViolation(pgErr.ConstraintName, err)
		case sqlStateForeignKeyViolation:
			return fmt.Errorf("%w: %s", db.ErrNotFound, pgErr.ConstraintName)
		}
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}

// requireRow turns an update or delete that matched nothing into db.ErrNotFound
func requireRow(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
