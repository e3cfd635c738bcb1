package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when no row or key matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique identity (phone, email) is already taken.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStaleStatus is returned when a conditional status update finds a different status.
	ErrStaleStatus = errors.New("order status changed concurrently")
)

const (
	uniqueViolation = "23505"
	// malformed uuid literals can never match a row
	invalidTextRepresentation = "22P02"
)

// mapPgError folds driver errors into the package sentinels.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return ErrDuplicate
		case invalidTextRepresentation:
			return ErrNotFound
		}
	}
	return err
}
