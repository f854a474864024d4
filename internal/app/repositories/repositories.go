package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/edudirectory/internal/db"
	"github.com/yigit/edudirectory/internal/pkg/dberrors"
	"github.com/yigit/edudirectory/internal/pkg/logger"
)

// Repositories holds all the repository instances
type Repositories struct {
	StateRepository      *StateRepository
	CityRepository       *CityRepository
	UniversityRepository *UniversityRepository
	CollegeRepository    *CollegeRepository
	CourseRepository     *CourseRepository
	MediaRepository      *MediaRepository
	ProfileRepository    *ProfileRepository
	IdentityRepository   *IdentityRepository
}

// NewRepositories initializes all repositories
func NewRepositories(conn db.DBTX) *Repositories {
	return &Repositories{
		StateRepository:      NewStateRepository(conn),
		CityRepository:       NewCityRepository(conn),
		UniversityRepository: NewUniversityRepository(conn),
		CollegeRepository:    NewCollegeRepository(conn),
		CourseRepository:     NewCourseRepository(conn),
		MediaRepository:      NewMediaRepository(conn),
		ProfileRepository:    NewProfileRepository(conn),
		IdentityRepository:   NewIdentityRepository(conn),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// execOne runs an UPDATE or DELETE that must touch exactly one row. notFound is
// returned when no row matched.
func execOne(ctx context.Context, conn db.DBTX, q squirrel.Sqlizer, op string, notFound error, translate func(error, string) error) error {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building SQL")
		return fmt.Errorf("failed to build %s query: %w", op, err)
	}

	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error executing query")
		return translate(err, op)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func exists(ctx context.Context, conn db.DBTX, q squirrel.SelectBuilder, op string) (bool, error) {
	sql, args, err := q.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build %s query: %w", op, err)
	}
	var found bool
	if err := conn.QueryRow(ctx, sql, args...).Scan(&found); err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error executing exists query")
		return false, dberrors.Translate(err, op)
	}
	return found, nil
}

// translateWithParent maps foreign key violations on insert or update to the parent's
// not-found error
func translateWithParent(parentNotFound error) func(error, string) error {
	return func(err error, op string) error {
		if dberrors.IsForeignKeyViolation(err) {
			return parentNotFound
		}
		return dberrors.Translate(err, op)
	}
}
