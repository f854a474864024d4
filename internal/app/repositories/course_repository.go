package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/db"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/dberrors"
	"github.com/yigit/edudirectory/internal/pkg/logger"
)

var courseColumns = []string{"id", "name", "slug", "category", "degree", "duration_years", "description", "created_at"}

// CourseFilter narrows a course listing
type CourseFilter struct {
	Category string
}

// CourseRepository handles course catalog database operations
type CourseRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(conn db.DBTX) *CourseRepository {
	return &CourseRepository{db: conn, sb: statementBuilder()}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	c := &models.Course{}
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Category, &c.Degree, &c.DurationYears, &c.Description, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func collectCourses(rows pgx.Rows, op string) ([]*models.Course, error) {
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Translate(err, op)
	}
	return courses, nil
}

// Create inserts the course and fills in its id and creation time
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("name", "slug", "category", "degree", "duration_years", "description").
		Values(course.Name, course.Slug, course.Category, course.Degree, course.DurationYears, course.Description).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt); err != nil {
		logger.Error().Err(err).Str("slug", course.Slug).Msg("Error executing create course query")
		return dberrors.Translate(err, "create course")
	}
	return nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetBySlug retrieves the oldest course with the given slug
func (r *CourseRepository) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	return r.getOne(ctx, squirrel.Eq{"slug": slug})
}

func (r *CourseRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).From("courses").Where(where).OrderBy("id ASC").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning course row")
		return nil, dberrors.Translate(err, "get course")
	}
	return course, nil
}

// List retrieves catalog courses ordered by name
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter) ([]*models.Course, error) {
	q := r.sb.Select(courseColumns...).From("courses").OrderBy("name ASC", "id ASC")
	if filter.Category != "" {
		q = q.Where(squirrel.ILike{"category": filter.Category})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, dberrors.Translate(err, "list courses")
	}
	return collectCourses(rows, "list courses")
}

// Update applies the given column values to the course
func (r *CourseRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	q := r.sb.Update("courses").SetMap(fields).Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "update course", apperrors.ErrCourseNotFound, dberrors.Translate)
}

// Delete deletes a course together with its college links
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	q := r.sb.Delete("courses").Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "delete course", apperrors.ErrCourseNotFound, dberrors.TranslateDelete)
}

// Upsert inserts or updates catalog courses keyed by id, in one transaction, and moves
// the id sequence past the largest seeded id.
func (r *CourseRepository) Upsert(ctx context.Context, courses []*models.Course) (int64, error) {
	if len(courses) == 0 {
		return 0, nil
	}

	q := r.sb.Insert("courses").
		Columns("id", "name", "slug", "category", "degree", "duration_years", "description")
	for _, c := range courses {
		q = q.Values(c.ID, c.Name, c.Slug, c.Category, c.Degree, c.DurationYears, c.Description)
	}
	sql, args, err := q.Suffix(`ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		slug = EXCLUDED.slug,
		category = EXCLUDED.category,
		degree = EXCLUDED.degree,
		duration_years = EXCLUDED.duration_years,
		description = COALESCE(EXCLUDED.description, courses.description)`).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build upsert courses query: %w", err)
	}

	var affected int64
	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int("count", len(courses)).Msg("Error upserting courses")
			return dberrors.Translate(err, "upsert courses")
		}
		affected = tag.RowsAffected()

		_, err = tx.Exec(ctx, "SELECT setval(pg_get_serial_sequence('courses', 'id'), (SELECT MAX(id) FROM courses))")
		if err != nil {
			return dberrors.Translate(err, "sync course sequence")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
