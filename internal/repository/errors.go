package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// IsNotFound reports whether err means the queried row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports a duplicate key on either supported driver.
func IsUniqueViolation(err error) bool {
	return matches(err, pgUniqueViolation, "UNIQUE constraint failed") || errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsForeignKeyViolation reports a referential-integrity failure.
func IsForeignKeyViolation(err error) bool {
	return matches(err, pgForeignKeyViolation, "FOREIGN KEY constraint failed") || errors.Is(err, gorm.ErrForeignKeyViolated)
}

// IsCheckViolation reports a CHECK constraint failure (e.g. stock dropping below zero).
func IsCheckViolation(err error) bool {
	return matches(err, pgCheckViolation, "CHECK constraint failed") || errors.Is(err, gorm.ErrCheckConstraintViolated)
}

func matches(err error, pgCode, sqliteText string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgCode
	}
	return strings.Contains(err.Error(), sqliteText)
}
