package sqlite

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// isUniqueViolation verifica si un error es una violación de UNIQUE (SQLITE_CONSTRAINT_UNIQUE).
func isUniqueViolation(err error) bool {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
