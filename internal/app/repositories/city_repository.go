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

var cityColumns = []string{
	"c.id", "c.name", "c.slug", "c.state_id", "c.image_url", "c.image_public_id", "c.created_at",
	"s.name", "s.slug",
}

// CityFilter narrows a city listing
type CityFilter struct {
	StateID *int64
}

// CityRepository handles city database operations
type CityRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewCityRepository creates a new CityRepository
func NewCityRepository(conn db.DBTX) *CityRepository {
	return &CityRepository{db: conn, sb: statementBuilder()}
}

func scanCity(row pgx.Row) (*models.City, error) {
	c := &models.City{State: &models.Ref{}}
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.StateID, &c.ImageURL, &c.ImagePublicID, &c.CreatedAt,
		&c.State.Name, &c.State.Slug)
	if err != nil {
		return nil, err
	}
	c.State.ID = c.StateID
	return c, nil
}

func (r *CityRepository) selectCities() squirrel.SelectBuilder {
	return r.sb.Select(cityColumns...).
		From("cities c").
		Join("states s ON s.id = c.state_id")
}

// Create inserts the city and fills in its id and creation time
func (r *CityRepository) Create(ctx context.Context, city *models.City) error {
	sql, args, err := r.sb.Insert("cities").
		Columns("name", "slug", "state_id", "image_url", "image_public_id").
		Values(city.Name, city.Slug, city.StateID, city.ImageURL, city.ImagePublicID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create city SQL")
		return fmt.Errorf("failed to build create city query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&city.ID, &city.CreatedAt); err != nil {
		logger.Error().Err(err).Str("slug", city.Slug).Int64("stateID", city.StateID).Msg("Error executing create city query")
		return translateWithParent(apperrors.ErrStateNotFound)(err, "create city")
	}
	return nil
}

// GetByID retrieves a city with its state
func (r *CityRepository) GetByID(ctx context.Context, id int64) (*models.City, error) {
	return r.getOne(ctx, squirrel.Eq{"c.id": id})
}

// GetBySlug retrieves the oldest city with the given slug
func (r *CityRepository) GetBySlug(ctx context.Context, slug string) (*models.City, error) {
	return r.getOne(ctx, squirrel.Eq{"c.slug": slug})
}

func (r *CityRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.City, error) {
	sql, args, err := r.selectCities().Where(where).OrderBy("c.id ASC").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get city query: %w", err)
	}

	city, err := scanCity(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCityNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning city row")
		return nil, dberrors.Translate(err, "get city")
	}
	return city, nil
}

// List retrieves cities with their state name, ordered by name
func (r *CityRepository) List(ctx context.Context, filter CityFilter) ([]*models.City, error) {
	q := r.selectCities().OrderBy("c.name ASC")
	if filter.StateID != nil {
		q = q.Where(squirrel.Eq{"c.state_id": *filter.StateID})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list cities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list cities query")
		return nil, dberrors.Translate(err, "list cities")
	}
	defer rows.Close()

	cities := []*models.City{}
	for rows.Next() {
		city, err := scanCity(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning city row: %w", err)
		}
		cities = append(cities, city)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Translate(err, "list cities")
	}
	return cities, nil
}

// Update applies the given column values to the city
func (r *CityRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	q := r.sb.Update("cities").SetMap(fields).Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "update city", apperrors.ErrCityNotFound, translateWithParent(apperrors.ErrStateNotFound))
}

// SetImage replaces the stored image reference. Nil values clear it.
func (r *CityRepository) SetImage(ctx context.Context, id int64, url, publicID *string) error {
	return r.Update(ctx, id, map[string]interface{}{"image_url": url, "image_public_id": publicID})
}

// Delete deletes a city. Cities that still have universities cannot be deleted.
func (r *CityRepository) Delete(ctx context.Context, id int64) error {
	q := r.sb.Delete("cities").Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "delete city", apperrors.ErrCityNotFound, dberrors.TranslateDelete)
}
