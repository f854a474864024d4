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

var identityColumns = []string{"id", "email", "password_hash", "email_confirmed_at", "created_at"}

// IdentityRepository handles login identities in the auth_users table
type IdentityRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewIdentityRepository creates a new IdentityRepository
func NewIdentityRepository(conn db.DBTX) *IdentityRepository {
	return &IdentityRepository{db: conn, sb: statementBuilder()}
}

func scanIdentity(row pgx.Row) (*models.Identity, error) {
	i := &models.Identity{}
	if err := row.Scan(&i.ID, &i.Email, &i.PasswordHash, &i.EmailConfirmedAt, &i.CreatedAt); err != nil {
		return nil, err
	}
	return i, nil
}

// Create inserts a pre-confirmed identity and fills in its id and creation time
func (r *IdentityRepository) Create(ctx context.Context, identity *models.Identity) error {
	if identity.ID == uuid.Nil {
		identity.ID = uuid.New()
	}
	identity.Email = strings.ToLower(identity.Email)

	sql, args, err := r.sb.Insert("auth_users").
		Columns("id", "email", "password_hash", "email_confirmed_at").
		Values(identity.ID, identity.Email, identity.PasswordHash, squirrel.Expr("NOW()")).
		Suffix("RETURNING email_confirmed_at, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create identity query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&identity.EmailConfirmedAt, &identity.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "auth_users_email_key") {
			return apperrors.ErrEmailTaken
		}
		logger.Error().Err(err).Str("email", identity.Email).Msg("Error executing create identity query")
		return dberrors.Translate(err, "create identity")
	}
	return nil
}

// GetByID retrieves an identity by ID
func (r *IdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves an identity by case-insensitive email
func (r *IdentityRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	return r.getOne(ctx, squirrel.Eq{"email": strings.ToLower(email)})
}

func (r *IdentityRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Identity, error) {
	sql, args, err := r.sb.Select(identityColumns...).From("auth_users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get identity query: %w", err)
	}

	identity, err := scanIdentity(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning identity row")
		return nil, dberrors.Translate(err, "get identity")
	}
	return identity, nil
}

// List retrieves all identities, newest first
func (r *IdentityRepository) List(ctx context.Context) ([]*models.Identity, error) {
	sql, args, err := r.sb.Select(identityColumns...).From("auth_users").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list identities query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list identities query")
		return nil, dberrors.Translate(err, "list identities")
	}
	defer rows.Close()

	identities := []*models.Identity{}
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning identity row: %w", err)
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Translate(err, "list identities")
	}
	return identities, nil
}

// Delete deletes an identity. Its profile is removed by the database.
func (r *IdentityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	q := r.sb.Delete("auth_users").Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "delete identity", apperrors.ErrUserNotFound, dberrors.Translate)
}
