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

var stateColumns = []string{"id", "name", "slug", "created_at"}

// StateRepository handles state database operations
type StateRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewStateRepository creates a new StateRepository
func NewStateRepository(conn db.DBTX) *StateRepository {
	return &StateRepository{db: conn, sb: statementBuilder()}
}

func scanState(row pgx.Row) (*models.State, error) {
	s := &models.State{}
	if err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.CreatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts the state and fills in its id and creation time
func (r *StateRepository) Create(ctx context.Context, state *models.State) error {
	sql, args, err := r.sb.Insert("states").
		Columns("name", "slug").
		Values(state.Name, state.Slug).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create state SQL")
		return fmt.Errorf("failed to build create state query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&state.ID, &state.CreatedAt); err != nil {
		logger.Error().Err(err).Str("slug", state.Slug).Msg("Error executing create state query")
		return dberrors.Translate(err, "create state")
	}
	return nil
}

// GetByID retrieves a state by ID
func (r *StateRepository) GetByID(ctx context.Context, id int64) (*models.State, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetBySlug retrieves a state by slug
func (r *StateRepository) GetBySlug(ctx context.Context, slug string) (*models.State, error) {
	return r.getOne(ctx, squirrel.Eq{"slug": slug})
}

func (r *StateRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.State, error) {
	sql, args, err := r.sb.Select(stateColumns...).
		From("states").
		Where(where).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get state query: %w", err)
	}

	state, err := scanState(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStateNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning state row")
		return nil, dberrors.Translate(err, "get state")
	}
	return state, nil
}

// List retrieves all states ordered by name
func (r *StateRepository) List(ctx context.Context) ([]*models.State, error) {
	sql, args, err := r.sb.Select(stateColumns...).
		From("states").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list states query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list states query")
		return nil, dberrors.Translate(err, "list states")
	}
	defer rows.Close()

	states := []*models.State{}
	for rows.Next() {
		state, err := scanState(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning state row: %w", err)
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Translate(err, "list states")
	}
	return states, nil
}

// Update applies the given column values to the state
func (r *StateRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	q := r.sb.Update("states").SetMap(fields).Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "update state", apperrors.ErrStateNotFound, dberrors.Translate)
}

// Delete deletes a state. States that still have cities cannot be deleted.
func (r *StateRepository) Delete(ctx context.Context, id int64) error {
	q := r.sb.Delete("states").Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "delete state", apperrors.ErrStateNotFound, dberrors.TranslateDelete)
}
