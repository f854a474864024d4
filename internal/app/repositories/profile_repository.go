package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/db"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/dberrors"
	"github.com/yigit/edudirectory/internal/pkg/logger"
)

var profileColumns = []string{"id", "email", "role", "full_name", "created_at"}

// ProfileRepository handles the user_profiles table
type ProfileRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(conn db.DBTX) *ProfileRepository {
	return &ProfileRepository{db: conn, sb: statementBuilder()}
}

func scanProfile(row pgx.Row) (*models.UserProfile, error) {
	p := &models.UserProfile{}
	if err := row.Scan(&p.ID, &p.Email, &p.Role, &p.FullName, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts the profile of an existing identity
func (r *ProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	profile.Email = strings.ToLower(profile.Email)

	sql, args, err := r.sb.Insert("user_profiles").
		Columns("id", "email", "role", "full_name").
		Values(profile.ID, profile.Email, profile.Role, profile.FullName).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&profile.CreatedAt); err != nil {
		logger.Error().Err(err).Str("userID", profile.ID.String()).Msg("Error executing create profile query")
		return translateWithParent(apperrors.ErrUserNotFound)(err, "create profile")
	}
	return nil
}

// GetByID retrieves a profile by identity ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	sql, args, err := r.sb.Select(profileColumns...).From("user_profiles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	profile, err := scanProfile(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("userID", id.String()).Msg("Error scanning profile row")
		return nil, dberrors.Translate(err, "get profile")
	}
	return profile, nil
}

// List retrieves all profiles
func (r *ProfileRepository) List(ctx context.Context) ([]*models.UserProfile, error) {
	sql, args, err := r.sb.Select(profileColumns...).From("user_profiles").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list profiles query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list profiles query")
		return nil, dberrors.Translate(err, "list profiles")
	}
	defer rows.Close()

	profiles := []*models.UserProfile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning profile row: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Translate(err, "list profiles")
	}
	return profiles, nil
}

// UpdateRole changes the role of a profile
func (r *ProfileRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	q := r.sb.Update("user_profiles").Set("role", role).Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "update profile role", apperrors.ErrUserNotFound, dberrors.Translate)
}
