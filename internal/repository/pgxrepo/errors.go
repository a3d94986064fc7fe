package pgxrepo

import (
	"errors"
	"fmt"

	"showcase-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation   = "23505"
	pgUndefinedFunction = "42883"
	pgNoConflictTarget  = "42P10"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapError translates driver errors into domain sentinels, keeping the cause.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if pgCode(err) == pgUniqueViolation {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrAlreadyExists, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
