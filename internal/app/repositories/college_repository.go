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
	"github.com/yigit/edudirectory/internal/pkg/slug"
)

const collegeSlugConstraint = "colleges_slug_key"

var collegeColumns = []string{
	"co.id", "co.name", "co.slug", "co.university_id", "co.specialization", "co.short_description",
	"co.long_description", "co.description", "co.brochure_url", "co.brochure_public_id",
	"co.fee_structure_pdf_url", "co.fee_structure_public_id", "co.contact_email", "co.contact_phone",
	"co.website_url", "co.image_url", "co.image_public_id", "co.created_at",
	"u.name", "u.slug", "ci.id", "ci.name", "ci.slug", "s.id", "s.name", "s.slug",
	"COALESCE((SELECT im.image_url FROM college_images im WHERE im.college_id = co.id ORDER BY im.display_order ASC, im.id ASC LIMIT 1), co.image_url)",
}

// CollegeFilter narrows a college listing
type CollegeFilter struct {
	UniversityID *int64
}

// CollegeRepository handles college and college-course link database operations
type CollegeRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCollegeRepository creates a new CollegeRepository
func NewCollegeRepository(conn db.DBTX) *CollegeRepository {
	return &CollegeRepository{db: conn, sb: statementBuilder()}
}

func scanCollege(row pgx.Row) (*models.College, error) {
	c := &models.College{University: &models.Ref{}, City: &models.Ref{}, State: &models.Ref{}}
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.UniversityID, &c.Specialization, &c.ShortDescription,
		&c.LongDescription, &c.Description, &c.BrochureURL, &c.BrochurePublicID,
		&c.FeeStructurePDFURL, &c.FeeStructurePublicID, &c.ContactEmail, &c.ContactPhone,
		&c.WebsiteURL, &c.ImageURL, &c.ImagePublicID, &c.CreatedAt,
		&c.University.Name, &c.University.Slug, &c.City.ID, &c.City.Name, &c.City.Slug,
		&c.State.ID, &c.State.Name, &c.State.Slug,
		&c.CoverImageURL,
	)
	if err != nil {
		return nil, err
	}
	c.University.ID = c.UniversityID
	return c, nil
}

func (r *CollegeRepository) selectColleges() squirrel.SelectBuilder {
	return r.sb.Select(collegeColumns...).
		From("colleges co").
		Join("universities u ON u.id = co.university_id").
		Join("cities ci ON ci.id = u.city_id").
		Join("states s ON s.id = ci.state_id")
}

// Create inserts the college under the first free slug among base, base-1, base-2, …
// and links the given courses. The slug search and the insert run in one transaction
// holding an advisory lock on the base slug.
func (r *CollegeRepository) Create(ctx context.Context, college *models.College, courseIDs []int64) error {
	base := college.Slug

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := db.AdvisoryXactLock(ctx, tx, "college-slug:"+base); err != nil {
			return dberrors.Translate(err, "lock college slug")
		}

		free, err := r.nextFreeSlug(ctx, tx, base)
		if err != nil {
			return err
		}

		sql, args, err := r.sb.Insert("colleges").
			Columns(
				"name", "slug", "university_id", "specialization", "short_description", "long_description",
				"description", "contact_email", "contact_phone", "website_url", "image_url", "image_public_id",
			).
			Values(
				college.Name, free, college.UniversityID, college.Specialization, college.ShortDescription,
				college.LongDescription, college.Description, college.ContactEmail, college.ContactPhone,
				college.WebsiteURL, college.ImageURL, college.ImagePublicID,
			).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create college query: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&college.ID, &college.CreatedAt); err != nil {
			if dberrors.IsDuplicateConstraintError(err, collegeSlugConstraint) {
				return apperrors.ErrSlugTaken
			}
			logger.Error().Err(err).Str("slug", free).Int64("universityID", college.UniversityID).Msg("Error executing create college query")
			return translateWithParent(apperrors.ErrUniversityNotFound)(err, "create college")
		}
		college.Slug = free

		if len(courseIDs) > 0 {
			return r.insertCourseLinks(ctx, tx, college.ID, courseIDs)
		}
		return nil
	})
}

func (r *CollegeRepository) nextFreeSlug(ctx context.Context, conn db.DBTX, base string) (string, error) {
	for n := 0; ; n++ {
		candidate := slug.WithSuffix(base, n)
		taken, err := exists(ctx, conn, r.sb.Select("1").From("colleges").Where(squirrel.Eq{"slug": candidate}), "check college slug")
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// GetByID retrieves a college with its location and cover image
func (r *CollegeRepository) GetByID(ctx context.Context, id int64) (*models.College, error) {
	return r.getOne(ctx, squirrel.Eq{"co.id": id})
}

// GetBySlug retrieves a college by its unique slug
func (r *CollegeRepository) GetBySlug(ctx context.Context, slug string) (*models.College, error) {
	return r.getOne(ctx, squirrel.Eq{"co.slug": slug})
}

func (r *CollegeRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.College, error) {
	sql, args, err := r.selectColleges().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get college query: %w", err)
	}

	college, err := scanCollege(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCollegeNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning college row")
		return nil, dberrors.Translate(err, "get college")
	}
	return college, nil
}

// List retrieves colleges with university, city, state and cover image, ordered by name
func (r *CollegeRepository) List(ctx context.Context, filter CollegeFilter) ([]*models.College, error) {
	q := r.selectColleges().OrderBy("co.name ASC", "co.id ASC")
	if filter.UniversityID != nil {
		q = q.Where(squirrel.Eq{"co.university_id": *filter.UniversityID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list colleges query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list colleges query")
		return nil, dberrors.Translate(err, "list colleges")
	}
	defer rows.Close()

	colleges := []*models.College{}
	for rows.Next() {
		college, err := scanCollege(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning college row: %w", err)
		}
		colleges = append(colleges, college)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Translate(err, "list colleges")
	}
	return colleges, nil
}

// Update applies the given column values to the college
func (r *CollegeRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	q := r.sb.Update("colleges").SetMap(fields).Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "update college", apperrors.ErrCollegeNotFound, translateWithParent(apperrors.ErrUniversityNotFound))
}

// SetDocument replaces the stored PDF reference of the given kind. Nil values clear it.
func (r *CollegeRepository) SetDocument(ctx context.Context, id int64, kind models.DocumentKind, url, publicID *string) error {
	var fields map[string]interface{}
	switch kind {
	case models.DocumentBrochure:
		fields = map[string]interface{}{"brochure_url": url, "brochure_public_id": publicID}
	case models.DocumentFeeStructure:
		fields = map[string]interface{}{"fee_structure_pdf_url": url, "fee_structure_public_id": publicID}
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown document kind %q", kind))
	}
	return r.Update(ctx, id, fields)
}

// Delete deletes a college. Course links, images and videos go with it.
func (r *CollegeRepository) Delete(ctx context.Context, id int64) error {
	q := r.sb.Delete("colleges").Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "delete college", apperrors.ErrCollegeNotFound, dberrors.TranslateDelete)
}

// LinkCourses replaces the college's course links with courseIDs. The delete and the
// insert run in one transaction, so readers never observe a partial link set.
func (r *CollegeRepository) LinkCourses(ctx context.Context, collegeID int64, courseIDs []int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		found, err := exists(ctx, tx, r.sb.Select("1").From("colleges").Where(squirrel.Eq{"id": collegeID}), "check college")
		if err != nil {
			return err
		}
		if !found {
			return apperrors.ErrCollegeNotFound
		}

		sql, args, err := r.sb.Delete("college_courses").Where(squirrel.Eq{"college_id": collegeID}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build unlink courses query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Int64("collegeID", collegeID).Msg("Error removing course links")
			return dberrors.Translate(err, "unlink courses")
		}

		if len(courseIDs) == 0 {
			return nil
		}
		return r.insertCourseLinks(ctx, tx, collegeID, courseIDs)
	})
}

func (r *CollegeRepository) insertCourseLinks(ctx context.Context, tx db.DBTX, collegeID int64, courseIDs []int64) error {
	q := r.sb.Insert("college_courses").Columns("college_id", "course_id")
	seen := make(map[int64]struct{}, len(courseIDs))
	for _, id := range courseIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		q = q.Values(collegeID, id)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build link courses query: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("collegeID", collegeID).Ints64("courseIDs", courseIDs).Msg("Error linking courses")
		return translateWithParent(apperrors.ErrCourseNotFound)(err, "link courses")
	}
	return nil
}

// ListCourses retrieves the courses linked to a college, ordered by name
func (r *CollegeRepository) ListCourses(ctx context.Context, collegeID int64) ([]*models.Course, error) {
	cols := make([]string, len(courseColumns))
	for i, c := range courseColumns {
		cols[i] = "c." + c
	}
	sql, args, err := r.sb.Select(cols...).
		From("courses c").
		Join("college_courses cc ON cc.course_id = c.id").
		Where(squirrel.Eq{"cc.college_id": collegeID}).
		OrderBy("c.name ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list college courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("collegeID", collegeID).Msg("Error executing list college courses query")
		return nil, dberrors.Translate(err, "list college courses")
	}
	return collectCourses(rows, "list college courses")
}
