package postgres

import (
	"errors"
	"fmt"

	"umkm-terminal/pkg/apperror"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// storageError wraps a driver error as SYS_001 with the failing operation.
func storageError(op string, err error) error {
	return apperror.ErrStorageUnavailable(fmt.Errorf("%s: %w", op, err))
}
