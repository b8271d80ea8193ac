package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// raiseExceptionCode is the SQLSTATE of a plain RAISE EXCEPTION in plpgsql.
	raiseExceptionCode  = "P0001"
	uniqueViolationCode = "23505"
	foreignKeyViolation = "23503"
	checkViolationCode  = "23514"
)

// RaisedMessage returns the message of an exception raised by a stored procedure.
func RaisedMessage(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == raiseExceptionCode {
		return pgErr.Message, true
	}
	return "", false
}

// IsUniqueViolation reports whether err was caused by a unique constraint,
// optionally a specific one.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// IsCheckViolation reports a failed CHECK constraint, e.g. stock going negative.
func IsCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == checkViolationCode
}
