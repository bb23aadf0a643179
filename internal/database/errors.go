package database

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// IsUniqueViolation reports whether err was caused by a UNIQUE or PRIMARY KEY constraint.
func IsUniqueViolation(err error) bool {
	code, msg, ok := constraintError(err)
	if !ok {
		return false
	}
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err was caused by a FOREIGN KEY constraint.
func IsForeignKeyViolation(err error) bool {
	code, msg, ok := constraintError(err)
	if !ok {
		return false
	}
	return code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}

// IsConstraintViolation reports whether err was caused by any constraint.
func IsConstraintViolation(err error) bool {
	_, _, ok := constraintError(err)
	return ok
}

func constraintError(err error) (code int, msg string, ok bool) {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return 0, "", false
	}
	code = sqliteErr.Code()
	// The low byte is the primary result code.
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return 0, "", false
	}
	return code, sqliteErr.Error(), true
}
