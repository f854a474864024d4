package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint. An empty constraint name matches any unique violation.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}

// IsForeignKeyViolation reports a 23503 error, raised when deleting a parent row that
// still has restricted children or inserting a row with a dangling reference.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}

// Detail extracts the message, detail and hint reported by Postgres.
func Detail(err error) map[string]interface{} {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	details := map[string]interface{}{
		"message": pgErr.Message,
		"code":    pgErr.Code,
	}
	if pgErr.Detail != "" {
		details["detail"] = pgErr.Detail
	}
	if pgErr.Hint != "" {
		details["hint"] = pgErr.Hint
	}
	return details
}

// Translate maps a database error onto the application taxonomy. Unknown failures
// become upstream errors carrying the Postgres diagnostics.
func Translate(err error, op string) error {
	if err == nil {
		return nil
	}
	switch {
	case IsDuplicateConstraintError(err, ""):
		return apperrors.NewConflictError(op + ": record already exists")
	case IsForeignKeyViolation(err):
		return apperrors.NewConflictError(op + ": referenced record does not exist")
	default:
		return apperrors.NewUpstreamError(op+" failed", err, Detail(err))
	}
}

// TranslateDelete is Translate for DELETE statements, where a foreign key violation
// means the row still has restricted children.
func TranslateDelete(err error, op string) error {
	if IsForeignKeyViolation(err) {
		return apperrors.ErrHasDependents
	}
	return Translate(err, op)
}
