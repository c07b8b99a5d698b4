package transaction

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	pgKeyColumns      = regexp.MustCompile(`Key \(([^)]+)\)=`)
	pgReferencedFrom  = regexp.MustCompile(`referenced from table "([^"]+)"`)
	sqliteUniqueField = regexp.MustCompile(`UNIQUE constraint failed: ([\w.]+)`)
)

// duplicateError names the column the unique index rejected.
func duplicateError(err error) *internal.AppError {
	field := "value"
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgKeyColumns.MatchString(pgErr.Detail):
			field = pgKeyColumns.FindStringSubmatch(pgErr.Detail)[1]
		case pgErr.ColumnName != "":
			field = pgErr.ColumnName
		case pgErr.ConstraintName != "":
			field = pgErr.ConstraintName
		}
	} else if m := sqliteUniqueField.FindStringSubmatch(err.Error()); m != nil {
		// "table.column"; multi-column indexes list the first column
		field = m[1][strings.LastIndex(m[1], ".")+1:]
	}
	return internal.NewValidationFieldError(field, fmt.Sprintf("The %s has already been taken.", field), internal.ErrCodeDuplicateValue)
}

// foreignKeyError distinguishes a delete blocked by referencing rows from a
// write pointing at a row that no longer exists.
func foreignKeyError(err error) *internal.AppError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return internal.NewReferentialConflictError("Row is still referenced", "", 0)
	}

	if m := pgReferencedFrom.FindStringSubmatch(pgErr.Detail); m != nil {
		return internal.NewReferentialConflictError(fmt.Sprintf("Row is still in use by %s", m[1]), m[1], 0)
	}
	if m := pgKeyColumns.FindStringSubmatch(pgErr.Detail); m != nil {
		return internal.NewValidationFieldError(m[1], fmt.Sprintf("The selected %s is invalid.", m[1]), internal.ErrCodeUnknownReference)
	}
	return internal.NewReferentialConflictError("Row is still referenced", pgErr.TableName, 0)
}
