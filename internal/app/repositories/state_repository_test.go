package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
)

func TestStateRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewStateRepository(mock)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO states (name,slug) VALUES ($1,$2) RETURNING id, created_at")).
		WithArgs("Tamil Nadu", "tamil-nadu").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), created))

	state := &models.State{Name: "Tamil Nadu", Slug: "tamil-nadu"}
	require.NoError(t, repo.Create(context.Background(), state))
	assert.Equal(t, int64(12), state.ID)
	assert.Equal(t, created, state.CreatedAt)
}

func TestStateRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewStateRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, slug, created_at FROM states WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrStateNotFound)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestStateRepositoryUpdate(t *testing.T) {
	mock := newMock(t)
	repo := NewStateRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE states SET name = $1, slug = $2 WHERE id = $3")).
		WithArgs("Kerala", "kerala", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE states SET name = $1 WHERE id = $2")).
		WithArgs("Goa", int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.Update(context.Background(), 3, map[string]interface{}{"name": "Kerala", "slug": "kerala"}))
	err := repo.Update(context.Background(), 4, map[string]interface{}{"name": "Goa"})
	assert.ErrorIs(t, err, apperrors.ErrStateNotFound)
}

func TestStateRepositoryDeleteWithCities(t *testing.T) {
	mock := newMock(t)
	repo := NewStateRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM states WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "update or delete on table \"states\" violates foreign key constraint"})

	err := repo.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, apperrors.ErrHasDependents)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestStateRepositoryUpstreamError(t *testing.T) {
	mock := newMock(t)
	repo := NewStateRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, slug, created_at FROM states ORDER BY name ASC")).
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: "relation \"states\" does not exist", Hint: "run migrations"})

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
	assert.Equal(t, "run migrations", apperrors.Details(err)["hint"])
}
