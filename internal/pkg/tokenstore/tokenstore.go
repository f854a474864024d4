// Package tokenstore records revoked access tokens by their JWT id until they expire.
package tokenstore

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store records and checks token revocations
type Store interface {
	Revoke(ctx context.Context, jti string, userID uuid.UUID, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
