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

var universityColumns = []string{
	"u.id", "u.name", "u.slug", "u.city_id", "u.image_url", "u.image_public_id", "u.created_at",
	"c.name", "c.slug", "s.id", "s.name", "s.slug",
}

// UniversityFilter narrows a university listing
type UniversityFilter struct {
	CityID *int64
}

// UniversityRepository handles university database operations
type UniversityRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewUniversityRepository creates a new UniversityRepository
func NewUniversityRepository(conn db.DBTX) *UniversityRepository {
	return &UniversityRepository{db: conn, sb: statementBuilder()}
}

func scanUniversity(row pgx.Row) (*models.University, error) {
	u := &models.University{City: &models.Ref{}, State: &models.Ref{}}
	err := row.Scan(&u.ID, &u.Name, &u.Slug, &u.CityID, &u.ImageURL, &u.ImagePublicID, &u.CreatedAt,
		&u.City.Name, &u.City.Slug, &u.State.ID, &u.State.Name, &u.State.Slug)
	if err != nil {
		return nil, err
	}
	u.City.ID = u.CityID
	return u, nil
}

func (r *UniversityRepository) selectUniversities() squirrel.SelectBuilder {
	return r.sb.Select(universityColumns...).
		From("universities u").
		Join("cities c ON c.id = u.city_id").
		Join("states s ON s.id = c.state_id")
}

// Create inserts the university and fills in its id and creation time
func (r *UniversityRepository) Create(ctx context.Context, university *models.University) error {
	sql, args, err := r.sb.Insert("universities").
		Columns("name", "slug", "city_id", "image_url", "image_public_id").
		Values(university.Name, university.Slug, university.CityID, university.ImageURL, university.ImagePublicID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create university SQL")
		return fmt.Errorf("failed to build create university query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&university.ID, &university.CreatedAt); err != nil {
		logger.Error().Err(err).Str("slug", university.Slug).Int64("cityID", university.CityID).Msg("Error executing create university query")
		return translateWithParent(apperrors.ErrCityNotFound)(err, "create university")
	}
	return nil
}

// GetByID retrieves a university with its city and state
func (r *UniversityRepository) GetByID(ctx context.Context, id int64) (*models.University, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id})
}

// GetBySlug retrieves the oldest university with the given slug
func (r *UniversityRepository) GetBySlug(ctx context.Context, slug string) (*models.University, error) {
	return r.getOne(ctx, squirrel.Eq{"u.slug": slug})
}

func (r *UniversityRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.University, error) {
	sql, args, err := r.selectUniversities().Where(where).OrderBy("u.id ASC").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get university query: %w", err)
	}

	university, err := scanUniversity(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUniversityNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning university row")
		return nil, dberrors.Translate(err, "get university")
	}
	return university, nil
}

// List retrieves universities with their city and state names, ordered by name
func (r *UniversityRepository) List(ctx context.Context, filter UniversityFilter) ([]*models.University, error) {
	q := r.selectUniversities().OrderBy("u.name ASC")
	if filter.CityID != nil {
		q = q.Where(squirrel.Eq{"u.city_id": *filter.CityID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list universities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list universities query")
		return nil, dberrors.Translate(err, "list universities")
	}
	defer rows.Close()

	universities := []*models.University{}
	for rows.Next() {
		university, err := scanUniversity(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning university row: %w", err)
		}
		universities = append(universities, university)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Translate(err, "list universities")
	}
	return universities, nil
}

// Update applies the given column values to the university
func (r *UniversityRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	q := r.sb.Update("universities").SetMap(fields).Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "update university", apperrors.ErrUniversityNotFound, translateWithParent(apperrors.ErrCityNotFound))
}

// SetImage replaces the stored image reference. Nil values clear it.
func (r *UniversityRepository) SetImage(ctx context.Context, id int64, url, publicID *string) error {
	return r.Update(ctx, id, map[string]interface{}{"image_url": url, "image_public_id": publicID})
}

// Delete deletes a university. Universities that still have colleges cannot be deleted.
func (r *UniversityRepository) Delete(ctx context.Context, id int64) error {
	q := r.sb.Delete("universities").Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "delete university", apperrors.ErrUniversityNotFound, dberrors.TranslateDelete)
}
