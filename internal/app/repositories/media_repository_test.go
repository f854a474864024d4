package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
)

func TestCreateImageAppendsToOrder(t *testing.T) {
	mock := newMock(t)
	repo := NewMediaRepository(mock)
	publicID := "colleges/images/abc"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO college_images (college_id,image_url,cloudinary_public_id,caption,display_order) VALUES ($1,$2,$3,$4,(SELECT COALESCE(MAX(display_order), -1) + 1 FROM college_images WHERE college_id = $5))")).
		WithArgs(int64(5), "https://cdn/x.jpg", &publicID, pgxmock.AnyArg(), int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "display_order", "created_at"}).AddRow(int64(31), 2, time.Now()))

	image := &models.CollegeImage{CollegeID: 5, ImageURL: "https://cdn/x.jpg", PublicID: &publicID}
	require.NoError(t, repo.CreateImage(context.Background(), image))
	assert.Equal(t, int64(31), image.ID)
	assert.Equal(t, 2, image.DisplayOrder)
}

func TestReorderImages(t *testing.T) {
	mock := newMock(t)
	repo := NewMediaRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM college_images WHERE college_id = $1 FOR UPDATE")).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(10)).AddRow(int64(11)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE college_images SET display_order = $1 WHERE college_id = $2 AND id = $3")).
		WithArgs(0, int64(5), int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE college_images SET display_order = $1 WHERE college_id = $2 AND id = $3")).
		WithArgs(1, int64(5), int64(10)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReorderImages(context.Background(), 5, []int64{11, 10}))
}

func TestReorderRejectsIncompleteList(t *testing.T) {
	mock := newMock(t)
	repo := NewMediaRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM college_videos WHERE college_id = $1 FOR UPDATE")).
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(10)).AddRow(int64(11)))
	mock.ExpectRollback()

	err := repo.ReorderVideos(context.Background(), 5, []int64{10})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSameIDSet(t *testing.T) {
	assert.NoError(t, sameIDSet([]int64{1, 2, 3}, []int64{3, 1, 2}))
	assert.ErrorIs(t, sameIDSet([]int64{1, 2}, []int64{1, 1}), apperrors.ErrValidationFailed)
	assert.ErrorIs(t, sameIDSet([]int64{1, 2}, []int64{1, 7}), apperrors.ErrValidationFailed)
	assert.ErrorIs(t, sameIDSet([]int64{1}, []int64{}), apperrors.ErrValidationFailed)
}
