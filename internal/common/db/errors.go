package db

import (
	"errors"

	"github.com/jackc/pgconn"
)

// Postgres class 23 integrity violation for duplicate keys.
const uniqueViolationCode = "23505"

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
