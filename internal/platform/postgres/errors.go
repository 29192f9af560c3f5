package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/packlane/packlane-api/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the error code for unique constraint violations
	uniqueViolationCode = "23505"

	// foreignKeyViolationCode is the error code for foreign key violations
	foreignKeyViolationCode = "23503"

	// connectionClassPrefix covers class 08, connection exceptions
	connectionClassPrefix = "08"
)

// mapError maps a driver error onto the store package's sentinel errors.
// Context cancellation passes through untouched so callers can still detect
// deadline expiry with errors.Is.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == uniqueViolationCode:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case pgErr.Code == foreignKeyViolationCode:
			return fmt.Errorf("%w: foreign key violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		case strings.HasPrefix(pgErr.Code, connectionClassPrefix):
			return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	// Anything else that reaches a store method failed between the pool and
	// the server, so callers should treat it as the database being away.
	return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
}

// IsUniqueViolation checks if the given error is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
