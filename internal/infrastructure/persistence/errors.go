package persistence

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/koifarm/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors onto the domain taxonomy. Domain errors
// pass through untouched; anything unrecognised becomes a persistence failure.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return shared.NewConflictError("%s: duplicate value violates %s", op, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return shared.NewValidationError("%s: referenced record does not exist", op)
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
			return shared.ErrConcurrencyConflict
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.NewConflictError("%s: duplicate value", op)
	}

	return shared.NewPersistenceError(op, err)
}

// notFound converts gorm.ErrRecordNotFound to a not-found domain error
func notFound(entity, op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(entity)
	}
	return translateError(op, err)
}
