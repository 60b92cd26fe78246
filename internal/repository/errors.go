package repository

import (
	"errors"

	"github.com/lib/pq"
)

// PostgreSQL error codes we translate into domain errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqStringTooLong       = "22001"
)

func isPQCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}
