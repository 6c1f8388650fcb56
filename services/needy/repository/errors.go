package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"needy/domain"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classify maps storage errors onto the domain taxonomy so callers can use
// errors.Is. Unknown errors are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if strings.Contains(pgErr.ConstraintName, "phone") {
				return fmt.Errorf("%w: %s", domain.ErrDuplicatePhone, pgErr.Detail)
			}
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrReferenceIntegrity, pgErr.ConstraintName)
		}
		return err
	}

	// sqlite reports constraint failures as plain text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, "phone_normalized"):
		return fmt.Errorf("%w: %s", domain.ErrDuplicatePhone, msg)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %s", domain.ErrReferenceIntegrity, msg)
	}
	return err
}

// supportsRegexFilter reports whether the backend understands the `~`
// operator used to pre-filter coordinates.
func supportsRegexFilter(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

// numericPattern matches a signed decimal such as " -35.7 ".
const numericPattern = `^\s*[+-]?\d+(\.\d+)?\s*$`
