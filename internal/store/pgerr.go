package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"demo/ordersapi/internal/apperr"
)

// Postgres SQLSTATE codes the managers care about.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
)

// classify maps storage failures onto the application error kinds. Anything
// unrecognized passes through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%s: %w", pgErr.Message, apperr.ErrConcurrency)
	case codeUniqueViolation, codeForeignKeyViolation:
		return fmt.Errorf("%s: %w", pgErr.Message, apperr.ErrConflict)
	}
	return err
}
