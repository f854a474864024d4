// Package seed loads the static course catalog and the super-admin account
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/services"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/auth"
	"github.com/yigit/edudirectory/internal/pkg/logger"
)

// DefaultBatchSize is the number of courses written per upsert statement
const DefaultBatchSize = 500

//go:embed catalog.json
var defaultCatalog []byte

// CatalogEntry is one course of a catalog file
type CatalogEntry struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CourseUpserter writes catalog courses keyed by id
type CourseUpserter interface {
	Upsert(ctx context.Context, courses []*models.Course) (int64, error)
}

// Result summarizes a catalog run
type Result struct {
	Read     int
	Upserted int64
	Skipped  int
}

// DefaultCatalog returns the catalog shipped with the binary
func DefaultCatalog() ([]CatalogEntry, error) {
	return LoadCatalog(bytes.NewReader(defaultCatalog))
}

// LoadCatalog decodes a JSON list of catalog entries
func LoadCatalog(r io.Reader) ([]CatalogEntry, error) {
	var entries []CatalogEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode course catalog: %w", err)
	}
	return entries, nil
}

// Courses classifies every entry and upserts them in batches. Entries without a
// positive id or a sluggable name are skipped. Re-running with the same catalog
// updates the same rows.
func Courses(ctx context.Context, repo CourseUpserter, entries []CatalogEntry, batchSize int) (*Result, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	res := &Result{Read: len(entries)}

	seen := make(map[int64]bool, len(entries))
	batch := make([]*models.Course, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := repo.Upsert(ctx, batch)
		if err != nil {
			return fmt.Errorf("error upserting %d courses starting at id %d: %w", len(batch), batch[0].ID, err)
		}
		res.Upserted += n
		logger.Info().Int("batch", len(batch)).Int64("total", res.Upserted).Msg("Course batch upserted")
		batch = batch[:0]
		return nil
	}

	for _, entry := range entries {
		if entry.ID <= 0 || seen[entry.ID] {
			logger.Warn().Int64("id", entry.ID).Str("name", entry.Name).Msg("Skipping catalog entry with invalid or duplicate id")
			res.Skipped++
			continue
		}
		course, err := services.NewCourse(entry.Name, entry.Description)
		if err != nil {
			logger.Warn().Err(err).Int64("id", entry.ID).Str("name", entry.Name).Msg("Skipping catalog entry")
			res.Skipped++
			continue
		}
		seen[entry.ID] = true
		course.ID = entry.ID
		batch = append(batch, course)

		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}
	if err := flush(); err != nil {
		return res, err
	}
	return res, nil
}

// SuperAdmin makes sure the super-admin identity exists with an admin profile. An
// existing identity keeps its password.
func SuperAdmin(ctx context.Context, identities services.IdentityStore, profiles services.ProfileStore, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.NewValidationError("super-admin email is required")
	}

	identity, err := identities.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		if password == "" {
			return apperrors.NewValidationError("super-admin password is required to create the account")
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("error hashing super-admin password: %w", err)
		}
		identity = &models.Identity{Email: email, PasswordHash: hash}
		if err := identities.Create(ctx, identity); err != nil {
			return fmt.Errorf("error creating super-admin identity: %w", err)
		}
		logger.Info().Str("email", email).Msg("Super-admin identity created")
	case err != nil:
		return fmt.Errorf("error retrieving super-admin identity: %w", err)
	}

	profile, err := profiles.GetByID(ctx, identity.ID)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		if err := profiles.Create(ctx, &models.UserProfile{ID: identity.ID, Email: email, Role: models.RoleAdmin}); err != nil {
			return fmt.Errorf("error creating super-admin profile: %w", err)
		}
	case err != nil:
		return fmt.Errorf("error retrieving super-admin profile: %w", err)
	case profile.Role != models.RoleAdmin:
		if err := profiles.UpdateRole(ctx, identity.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("error promoting super-admin: %w", err)
		}
	}
	return nil
}
