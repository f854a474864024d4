package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/yigit/edudirectory/internal/db"
	"github.com/yigit/edudirectory/internal/pkg/logger"
)

// PostgresStore keeps revocations in the revoked_tokens table. Used when Redis is not
// configured.
type PostgresStore struct {
	db  db.DBTX
	sb  squirrel.StatementBuilderType
	now func() time.Time
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(conn db.DBTX) *PostgresStore {
	return &PostgresStore{
		db:  conn,
		sb:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		now: time.Now,
	}
}

// Revoke inserts the token id. Revoking twice is a no-op.
func (s *PostgresStore) Revoke(ctx context.Context, jti string, userID uuid.UUID, expiresAt time.Time) error {
	sql, args, err := s.sb.Insert("revoked_tokens").
		Columns("jti", "user_id", "expires_at", "revoked_at").
		Values(jti, userID, expiresAt, s.now()).
		Suffix("ON CONFLICT (jti) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke token query: %w", err)
	}

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("jti", jti).Msg("Error revoking token")
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

// IsRevoked reports whether an unexpired revocation exists for the token id
func (s *PostgresStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	sql, args, err := s.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From("revoked_tokens").
		Where(squirrel.Eq{"jti": jti}).
		Where(squirrel.Gt{"expires_at": s.now()}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build revocation query: %w", err)
	}

	var revoked bool
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&revoked); err != nil {
		logger.Error().Err(err).Str("jti", jti).Msg("Error checking token revocation")
		return false, fmt.Errorf("error checking token revocation: %w", err)
	}
	return revoked, nil
}

// PurgeExpired deletes revocations whose tokens have expired anyway
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	sql, args, err := s.sb.Delete("revoked_tokens").
		Where(squirrel.LtOrEq{"expires_at": s.now()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build purge query: %w", err)
	}

	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error purging revoked tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
