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

var (
	imageColumns = []string{"id", "college_id", "image_url", "cloudinary_public_id", "caption", "display_order", "created_at"}
	videoColumns = []string{"id", "college_id", "video_url", "cloudinary_public_id", "title", "platform", "display_order", "created_at"}
)

// MediaRepository handles college image and video rows
type MediaRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewMediaRepository creates a new MediaRepository
func NewMediaRepository(conn db.DBTX) *MediaRepository {
	return &MediaRepository{db: conn, sb: statementBuilder()}
}

func scanImage(row pgx.Row) (*models.CollegeImage, error) {
	i := &models.CollegeImage{}
	if err := row.Scan(&i.ID, &i.CollegeID, &i.ImageURL, &i.PublicID, &i.Caption, &i.DisplayOrder, &i.CreatedAt); err != nil {
		return nil, err
	}
	return i, nil
}

func scanVideo(row pgx.Row) (*models.CollegeVideo, error) {
	v := &models.CollegeVideo{}
	if err := row.Scan(&v.ID, &v.CollegeID, &v.VideoURL, &v.PublicID, &v.Title, &v.Platform, &v.DisplayOrder, &v.CreatedAt); err != nil {
		return nil, err
	}
	return v, nil
}

// nextOrder places a new row after every existing row of the college
func nextOrder(table string, collegeID int64) squirrel.Sqlizer {
	return squirrel.Expr("(SELECT COALESCE(MAX(display_order), -1) + 1 FROM "+table+" WHERE college_id = ?)", collegeID)
}

// CreateImage inserts the image at the end of the college's order
func (r *MediaRepository) CreateImage(ctx context.Context, image *models.CollegeImage) error {
	sql, args, err := r.sb.Insert("college_images").
		Columns("college_id", "image_url", "cloudinary_public_id", "caption", "display_order").
		Values(image.CollegeID, image.ImageURL, image.PublicID, image.Caption, nextOrder("college_images", image.CollegeID)).
		Suffix("RETURNING id, display_order, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create image query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&image.ID, &image.DisplayOrder, &image.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("collegeID", image.CollegeID).Msg("Error executing create image query")
		return translateWithParent(apperrors.ErrCollegeNotFound)(err, "create college image")
	}
	return nil
}

// GetImage retrieves an image by ID
func (r *MediaRepository) GetImage(ctx context.Context, id int64) (*models.CollegeImage, error) {
	sql, args, err := r.sb.Select(imageColumns...).From("college_images").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get image query: %w", err)
	}

	image, err := scanImage(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrImageNotFound
		}
		logger.Error().Err(err).Int64("imageID", id).Msg("Error scanning image row")
		return nil, dberrors.Translate(err, "get college image")
	}
	return image, nil
}

// ListImages retrieves a college's images in display order
func (r *MediaRepository) ListImages(ctx context.Context, collegeID int64) ([]*models.CollegeImage, error) {
	sql, args, err := r.sb.Select(imageColumns...).
		From("college_images").
		Where(squirrel.Eq{"college_id": collegeID}).
		OrderBy("display_order ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list images query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("collegeID", collegeID).Msg("Error executing list images query")
		return nil, dberrors.Translate(err, "list college images")
	}
	defer rows.Close()

	images := []*models.CollegeImage{}
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning image row: %w", err)
		}
		images = append(images, image)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Translate(err, "list college images")
	}
	return images, nil
}

// DeleteImage deletes an image row
func (r *MediaRepository) DeleteImage(ctx context.Context, id int64) error {
	q := r.sb.Delete("college_images").Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "delete college image", apperrors.ErrImageNotFound, dberrors.Translate)
}

// ReorderImages sets display_order from the position of each id. ids must list every
// image of the college exactly once.
func (r *MediaRepository) ReorderImages(ctx context.Context, collegeID int64, ids []int64) error {
	return r.reorder(ctx, "college_images", collegeID, ids)
}

// CreateVideo inserts the video at the end of the college's order
func (r *MediaRepository) CreateVideo(ctx context.Context, video *models.CollegeVideo) error {
	sql, args, err := r.sb.Insert("college_videos").
		Columns("college_id", "video_url", "cloudinary_public_id", "title", "platform", "display_order").
		Values(video.CollegeID, video.VideoURL, video.PublicID, video.Title, video.Platform, nextOrder("college_videos", video.CollegeID)).
		Suffix("RETURNING id, display_order, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create video query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&video.ID, &video.DisplayOrder, &video.CreatedAt); err != nil {
		logger.Error().Err(err).Int64("collegeID", video.CollegeID).Msg("Error executing create video query")
		return translateWithParent(apperrors.ErrCollegeNotFound)(err, "create college video")
	}
	return nil
}

// GetVideo retrieves a video by ID
func (r *MediaRepository) GetVideo(ctx context.Context, id int64) (*models.CollegeVideo, error) {
	sql, args, err := r.sb.Select(videoColumns...).From("college_videos").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get video query: %w", err)
	}

	video, err := scanVideo(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrVideoNotFound
		}
		logger.Error().Err(err).Int64("videoID", id).Msg("Error scanning video row")
		return nil, dberrors.Translate(err, "get college video")
	}
	return video, nil
}

// ListVideos retrieves a college's videos in display order
func (r *MediaRepository) ListVideos(ctx context.Context, collegeID int64) ([]*models.CollegeVideo, error) {
	sql, args, err := r.sb.Select(videoColumns...).
		From("college_videos").
		Where(squirrel.Eq{"college_id": collegeID}).
		OrderBy("display_order ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list videos query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("collegeID", collegeID).Msg("Error executing list videos query")
		return nil, dberrors.Translate(err, "list college videos")
	}
	defer rows.Close()

	videos := []*models.CollegeVideo{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning video row: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Translate(err, "list college videos")
	}
	return videos, nil
}

// DeleteVideo deletes a video row
func (r *MediaRepository) DeleteVideo(ctx context.Context, id int64) error {
	q := r.sb.Delete("college_videos").Where(squirrel.Eq{"id": id})
	return execOne(ctx, r.db, q, "delete college video", apperrors.ErrVideoNotFound, dberrors.Translate)
}

// ReorderVideos sets display_order from the position of each id. ids must list every
// video of the college exactly once.
func (r *MediaRepository) ReorderVideos(ctx context.Context, collegeID int64, ids []int64) error {
	return r.reorder(ctx, "college_videos", collegeID, ids)
}

func (r *MediaRepository) reorder(ctx context.Context, table string, collegeID int64, ids []int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Select("id").From(table).Where(squirrel.Eq{"college_id": collegeID}).Suffix("FOR UPDATE").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build reorder lookup query: %w", err)
		}
		rows, err := tx.Query(ctx, sql, args...)
		if err != nil {
			return dberrors.Translate(err, "reorder "+table)
		}
		current, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return dberrors.Translate(err, "reorder "+table)
		}

		if err := sameIDSet(current, ids); err != nil {
			return err
		}

		for position, id := range ids {
			sql, args, err := r.sb.Update(table).
				Set("display_order", position).
				Where(squirrel.Eq{"id": id, "college_id": collegeID}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build reorder query: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				logger.Error().Err(err).Int64("collegeID", collegeID).Str("table", table).Msg("Error reordering media")
				return dberrors.Translate(err, "reorder "+table)
			}
		}
		return nil
	})
}

func sameIDSet(current, requested []int64) error {
	if len(current) != len(requested) {
		return apperrors.NewValidationError(fmt.Sprintf("order must list all %d items exactly once", len(current)))
	}
	have := make(map[int64]bool, len(current))
	for _, id := range current {
		have[id] = false
	}
	for _, id := range requested {
		used, ok := have[id]
		if !ok {
			return apperrors.NewValidationError(fmt.Sprintf("item %d does not belong to this college", id))
		}
		if used {
			return apperrors.NewValidationError(fmt.Sprintf("item %d is listed more than once", id))
		}
		have[id] = true
	}
	return nil
}
