package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/helpers"
	"github.com/yigit/edudirectory/internal/pkg/logger"
	"github.com/yigit/edudirectory/internal/pkg/mediastore"
	"github.com/yigit/edudirectory/internal/pkg/pdfcheck"
	"golang.org/x/sync/errgroup"
)

// cleanupConcurrency bounds parallel asset deletes during a college cascade
const cleanupConcurrency = 4

var (
	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}
	videoExtensions = map[string]bool{".mp4": true, ".mov": true, ".webm": true, ".avi": true, ".mkv": true}
)

// FileUpload is an uploaded file handed over by a controller
type FileUpload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// MediaConfig holds upload limits
type MediaConfig struct {
	MaxUploadMB int
	Documents   pdfcheck.Limits
}

// MediaService defines the interface for media attachment operations. Operations that
// delete external assets do so best-effort and report failures as warnings.
type MediaService interface {
	UploadCollegeImage(ctx context.Context, collegeID int64, file *FileUpload, caption *string) (*models.CollegeImage, error)
	UploadCollegeVideo(ctx context.Context, collegeID int64, file *FileUpload, title *string) (*models.CollegeVideo, error)
	AddCollegeVideoURL(ctx context.Context, collegeID int64, req *dto.AddVideoURLRequest) (*models.CollegeVideo, error)
	DeleteImage(ctx context.Context, id int64) ([]string, error)
	DeleteVideo(ctx context.Context, id int64) ([]string, error)
	ReorderImages(ctx context.Context, collegeID int64, ids []int64) ([]*models.CollegeImage, error)
	ReorderVideos(ctx context.Context, collegeID int64, ids []int64) ([]*models.CollegeVideo, error)
	DeleteCollege(ctx context.Context, collegeID int64) ([]string, error)
	ReplaceCityImage(ctx context.Context, cityID int64, file *FileUpload) (*models.City, []string, error)
	RemoveCityImage(ctx context.Context, cityID int64) (*models.City, []string, error)
	ReplaceUniversityImage(ctx context.Context, universityID int64, file *FileUpload) (*models.University, []string, error)
	RemoveUniversityImage(ctx context.Context, universityID int64) (*models.University, []string, error)
	UploadCollegeDocument(ctx context.Context, collegeID int64, kind models.DocumentKind, filename string, content []byte) (*models.College, []string, error)
	RemoveCollegeDocument(ctx context.Context, collegeID int64, kind models.DocumentKind) (*models.College, []string, error)
}

type mediaServiceImpl struct {
	collegeRepo    CollegeStore
	cityRepo       CityStore
	universityRepo UniversityStore
	mediaRepo      MediaStore
	store          mediastore.Store
	cfg            MediaConfig
}

// NewMediaService creates a new media service instance
func NewMediaService(
	collegeRepo CollegeStore,
	cityRepo CityStore,
	universityRepo UniversityStore,
	mediaRepo MediaStore,
	store mediastore.Store,
	cfg MediaConfig,
) MediaService {
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = pdfcheck.DocumentLimits.MaxFileSizeMB
	}
	if cfg.Documents.MaxFileSizeMB <= 0 || cfg.Documents.MaxPages <= 0 {
		cfg.Documents = pdfcheck.DocumentLimits
	}
	return &mediaServiceImpl{
		collegeRepo:    collegeRepo,
		cityRepo:       cityRepo,
		universityRepo: universityRepo,
		mediaRepo:      mediaRepo,
		store:          store,
		cfg:            cfg,
	}
}

// destroyAsset deletes an asset from the media store and returns a warning instead of
// an error when that fails. A slot that has a URL but no public id cannot be cleaned
// up and also yields a warning.
func destroyAsset(ctx context.Context, store mediastore.Store, url, publicID *string, kind mediastore.ResourceKind) string {
	id := helpers.Deref(publicID)
	if id == "" {
		if helpers.Deref(url) != "" {
			return fmt.Sprintf("%s asset %s has no stored public id and was not deleted from media storage", kind, *url)
		}
		return ""
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), externalCallTimeout)
	defer cancel()

	if err := store.Delete(ctx, id, kind); err != nil {
		logger.Warn().Err(err).Str("publicID", id).Str("kind", string(kind)).Msg("Failed to delete media asset")
		return fmt.Sprintf("failed to delete %s asset %s from media storage: %v", kind, id, err)
	}
	return ""
}

// discard removes an asset uploaded by an operation that then failed to persist it
func (s *mediaServiceImpl) discard(ctx context.Context, publicID string, kind mediastore.ResourceKind) {
	if w := destroyAsset(ctx, s.store, nil, &publicID, kind); w != "" {
		logger.Error().Str("publicID", publicID).Str("kind", string(kind)).Msg("Orphaned media asset after failed insert")
	}
}

func (s *mediaServiceImpl) upload(ctx context.Context, r io.Reader, opts mediastore.UploadOptions) (*mediastore.UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, externalCallTimeout)
	defer cancel()

	result, err := s.store.Upload(ctx, r, opts)
	if err != nil {
		logger.Error().Err(err).Str("folder", opts.Folder).Str("kind", string(opts.Kind)).Msg("Media upload failed")
		return nil, apperrors.NewUploadError(err)
	}
	return result, nil
}

func (s *mediaServiceImpl) validateFile(file *FileUpload, allowed map[string]bool) error {
	if file == nil || file.Content == nil {
		return fmt.Errorf("%w: file is required", apperrors.ErrValidationFailed)
	}
	ext := strings.ToLower(path.Ext(file.Filename))
	if !allowed[ext] {
		return fmt.Errorf("%w: file type %q is not allowed", apperrors.ErrValidationFailed, ext)
	}
	if limit := int64(s.cfg.MaxUploadMB) * 1024 * 1024; file.Size > limit {
		return fmt.Errorf("%w: file exceeds the %d MB upload limit", apperrors.ErrValidationFailed, s.cfg.MaxUploadMB)
	}
	return nil
}

func (s *mediaServiceImpl) requireCollege(ctx context.Context, collegeID int64) (*models.College, error) {
	if err := validateID(collegeID, "college"); err != nil {
		return nil, err
	}
	college, err := s.collegeRepo.GetByID(ctx, collegeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCollegeNotFound) {
			return nil, apperrors.ErrCollegeNotFound
		}
		return nil, fmt.Errorf("error retrieving college: %w", err)
	}
	return college, nil
}

// UploadCollegeImage uploads an image under the image policy and attaches it to the
// college at the end of its display order. When the insert fails the upload is undone.
func (s *mediaServiceImpl) UploadCollegeImage(ctx context.Context, collegeID int64, file *FileUpload, caption *string) (*models.CollegeImage, error) {
	if err := s.validateFile(file, imageExtensions); err != nil {
		return nil, err
	}
	if _, err := s.requireCollege(ctx, collegeID); err != nil {
		return nil, err
	}

	result, err := s.upload(ctx, file.Content, mediastore.UploadOptions{
		Folder:    mediastore.FolderCollegeImages,
		Kind:      mediastore.KindImage,
		Filename:  file.Filename,
		Transform: mediastore.ImagePolicy,
	})
	if err != nil {
		return nil, err
	}

	image := &models.CollegeImage{
		CollegeID: collegeID,
		ImageURL:  result.SecureURL,
		PublicID:  &result.PublicID,
		Caption:   helpers.NilIfBlank(caption),
	}
	if err := s.mediaRepo.CreateImage(ctx, image); err != nil {
		s.discard(ctx, result.PublicID, mediastore.KindImage)
		return nil, apperrors.NewPersistError(err)
	}
	return image, nil
}

// UploadCollegeVideo uploads a video file to the media store. Such videos always have
// the cloudinary platform.
func (s *mediaServiceImpl) UploadCollegeVideo(ctx context.Context, collegeID int64, file *FileUpload, title *string) (*models.CollegeVideo, error) {
	if err := s.validateFile(file, videoExtensions); err != nil {
		return nil, err
	}
	if _, err := s.requireCollege(ctx, collegeID); err != nil {
		return nil, err
	}

	result, err := s.upload(ctx, file.Content, mediastore.UploadOptions{
		Folder:   mediastore.FolderCollegeVideos,
		Kind:     mediastore.KindVideo,
		Filename: file.Filename,
	})
	if err != nil {
		return nil, err
	}

	video := &models.CollegeVideo{
		CollegeID: collegeID,
		VideoURL:  result.SecureURL,
		PublicID:  &result.PublicID,
		Title:     helpers.NilIfBlank(title),
		Platform:  models.PlatformCloudinary,
	}
	if err := s.mediaRepo.CreateVideo(ctx, video); err != nil {
		s.discard(ctx, result.PublicID, mediastore.KindVideo)
		return nil, apperrors.NewPersistError(err)
	}
	return video, nil
}

// AddCollegeVideoURL attaches an externally hosted video, inferring its platform from
// the URL
func (s *mediaServiceImpl) AddCollegeVideoURL(ctx context.Context, collegeID int64, req *dto.AddVideoURLRequest) (*models.CollegeVideo, error) {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return nil, fmt.Errorf("%w: video url is required", apperrors.ErrValidationFailed)
	}
	if err := validateID(collegeID, "college"); err != nil {
		return nil, err
	}

	video := &models.CollegeVideo{
		CollegeID: collegeID,
		VideoURL:  url,
		Title:     helpers.NilIfBlank(req.Title),
		Platform:  models.DetectPlatform(url),
	}
	if err := s.mediaRepo.CreateVideo(ctx, video); err != nil {
		if errors.Is(err, apperrors.ErrCollegeNotFound) {
			return nil, apperrors.ErrCollegeNotFound
		}
		return nil, fmt.Errorf("error adding video: %w", err)
	}
	return video, nil
}

// DeleteImage deletes an image row and, best-effort, its stored asset
func (s *mediaServiceImpl) DeleteImage(ctx context.Context, id int64) ([]string, error) {
	if err := validateID(id, "image"); err != nil {
		return nil, err
	}

	image, err := s.mediaRepo.GetImage(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrImageNotFound) {
			return nil, apperrors.ErrImageNotFound
		}
		return nil, fmt.Errorf("error retrieving image: %w", err)
	}

	var warnings []string
	if w := destroyAsset(ctx, s.store, nil, image.PublicID, mediastore.KindImage); w != "" {
		warnings = append(warnings, w)
	}

	if err := s.mediaRepo.DeleteImage(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrImageNotFound) {
			return warnings, apperrors.ErrImageNotFound
		}
		return warnings, fmt.Errorf("error deleting image: %w", err)
	}
	return warnings, nil
}

// DeleteVideo deletes a video row. Only videos hosted in the media store have an asset
// to delete.
func (s *mediaServiceImpl) DeleteVideo(ctx context.Context, id int64) ([]string, error) {
	if err := validateID(id, "video"); err != nil {
		return nil, err
	}

	video, err := s.mediaRepo.GetVideo(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrVideoNotFound) {
			return nil, apperrors.ErrVideoNotFound
		}
		return nil, fmt.Errorf("error retrieving video: %w", err)
	}

	var warnings []string
	if video.HostedExternally() {
		if w := destroyAsset(ctx, s.store, nil, video.PublicID, mediastore.KindVideo); w != "" {
			warnings = append(warnings, w)
		}
	}

	if err := s.mediaRepo.DeleteVideo(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrVideoNotFound) {
			return warnings, apperrors.ErrVideoNotFound
		}
		return warnings, fmt.Errorf("error deleting video: %w", err)
	}
	return warnings, nil
}

// ReorderImages sets display order 0..n-1 following ids, which must list every image
// of the college exactly once
func (s *mediaServiceImpl) ReorderImages(ctx context.Context, collegeID int64, ids []int64) ([]*models.CollegeImage, error) {
	if err := validateID(collegeID, "college"); err != nil {
		return nil, err
	}
	if err := s.mediaRepo.ReorderImages(ctx, collegeID, ids); err != nil {
		if apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrResourceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error reordering images: %w", err)
	}

	images, err := s.mediaRepo.ListImages(ctx, collegeID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving images: %w", err)
	}
	return images, nil
}

// ReorderVideos is ReorderImages for videos
func (s *mediaServiceImpl) ReorderVideos(ctx context.Context, collegeID int64, ids []int64) ([]*models.CollegeVideo, error) {
	if err := validateID(collegeID, "college"); err != nil {
		return nil, err
	}
	if err := s.mediaRepo.ReorderVideos(ctx, collegeID, ids); err != nil {
		if apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrResourceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error reordering videos: %w", err)
	}

	videos, err := s.mediaRepo.ListVideos(ctx, collegeID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving videos: %w", err)
	}
	return videos, nil
}

type assetRef struct {
	url      *string
	publicID *string
	kind     mediastore.ResourceKind
}

// DeleteCollege removes every stored asset of a college (gallery images, uploaded
// videos, cover image, documents) and then the college row, whose course links and
// media rows cascade. Asset failures never block the row delete.
func (s *mediaServiceImpl) DeleteCollege(ctx context.Context, collegeID int64) ([]string, error) {
	college, err := s.requireCollege(ctx, collegeID)
	if err != nil {
		return nil, err
	}

	var (
		images []*models.CollegeImage
		videos []*models.CollegeVideo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		images, err = s.mediaRepo.ListImages(gctx, collegeID)
		return err
	})
	g.Go(func() error {
		var err error
		videos, err = s.mediaRepo.ListVideos(gctx, collegeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error loading college media: %w", err)
	}

	assets := make([]assetRef, 0, len(images)+len(videos)+3)
	for _, im := range images {
		assets = append(assets, assetRef{publicID: im.PublicID, kind: mediastore.KindImage})
	}
	for _, v := range videos {
		if v.HostedExternally() {
			assets = append(assets, assetRef{publicID: v.PublicID, kind: mediastore.KindVideo})
		}
	}
	assets = append(assets,
		assetRef{url: college.ImageURL, publicID: college.ImagePublicID, kind: mediastore.KindImage},
		assetRef{url: college.BrochureURL, publicID: college.BrochurePublicID, kind: mediastore.KindRaw},
		assetRef{url: college.FeeStructurePDFURL, publicID: college.FeeStructurePublicID, kind: mediastore.KindRaw},
	)

	warnings := s.destroyAll(ctx, assets)

	if err := s.collegeRepo.Delete(ctx, collegeID); err != nil {
		if errors.Is(err, apperrors.ErrCollegeNotFound) {
			return warnings, apperrors.ErrCollegeNotFound
		}
		return warnings, fmt.Errorf("error deleting college: %w", err)
	}

	logger.Info().Int64("collegeID", collegeID).Int("assets", len(assets)).Int("warnings", len(warnings)).Msg("College deleted")
	return warnings, nil
}

// destroyAll deletes assets in parallel and returns warnings in input order
func (s *mediaServiceImpl) destroyAll(ctx context.Context, assets []assetRef) []string {
	results := make([]string, len(assets))

	var g errgroup.Group
	g.SetLimit(cleanupConcurrency)
	for i, a := range assets {
		g.Go(func() error {
			results[i] = destroyAsset(ctx, s.store, a.url, a.publicID, a.kind)
			return nil
		})
	}
	_ = g.Wait()

	var warnings []string
	for _, w := range results {
		if w != "" {
			warnings = append(warnings, w)
		}
	}
	return warnings
}

// imageSlot is a single-image column pair on a parent row
type imageSlot struct {
	folder string
	load   func(ctx context.Context, id int64) (url, publicID *string, err error)
	set    func(ctx context.Context, id int64, url, publicID *string) error
}

func (s *mediaServiceImpl) citySlot() imageSlot {
	return imageSlot{
		folder: mediastore.FolderCityImages,
		load: func(ctx context.Context, id int64) (*string, *string, error) {
			city, err := s.cityRepo.GetByID(ctx, id)
			if err != nil {
				return nil, nil, err
			}
			return city.ImageURL, city.ImagePublicID, nil
		},
		set: s.cityRepo.SetImage,
	}
}

func (s *mediaServiceImpl) universitySlot() imageSlot {
	return imageSlot{
		folder: mediastore.FolderUniversityImages,
		load: func(ctx context.Context, id int64) (*string, *string, error) {
			university, err := s.universityRepo.GetByID(ctx, id)
			if err != nil {
				return nil, nil, err
			}
			return university.ImageURL, university.ImagePublicID, nil
		},
		set: s.universityRepo.SetImage,
	}
}

// replaceImage uploads the new image, stores it on the row and then deletes the old
// asset best-effort
func (s *mediaServiceImpl) replaceImage(ctx context.Context, slot imageSlot, id int64, file *FileUpload) ([]string, error) {
	if err := s.validateFile(file, imageExtensions); err != nil {
		return nil, err
	}
	oldURL, oldPublicID, err := slot.load(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.upload(ctx, file.Content, mediastore.UploadOptions{
		Folder:    slot.folder,
		Kind:      mediastore.KindImage,
		Filename:  file.Filename,
		Transform: mediastore.ImagePolicy,
	})
	if err != nil {
		return nil, err
	}

	if err := slot.set(ctx, id, &result.SecureURL, &result.PublicID); err != nil {
		s.discard(ctx, result.PublicID, mediastore.KindImage)
		return nil, apperrors.NewPersistError(err)
	}

	var warnings []string
	if w := destroyAsset(ctx, s.store, oldURL, oldPublicID, mediastore.KindImage); w != "" {
		warnings = append(warnings, w)
	}
	return warnings, nil
}

// removeImage deletes the current asset best-effort and clears the slot
func (s *mediaServiceImpl) removeImage(ctx context.Context, slot imageSlot, id int64) ([]string, error) {
	oldURL, oldPublicID, err := slot.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if oldURL == nil && oldPublicID == nil {
		return nil, nil
	}

	var warnings []string
	if w := destroyAsset(ctx, s.store, oldURL, oldPublicID, mediastore.KindImage); w != "" {
		warnings = append(warnings, w)
	}
	if err := slot.set(ctx, id, nil, nil); err != nil {
		return warnings, err
	}
	return warnings, nil
}

// ReplaceCityImage sets a new city image
func (s *mediaServiceImpl) ReplaceCityImage(ctx context.Context, cityID int64, file *FileUpload) (*models.City, []string, error) {
	if err := validateID(cityID, "city"); err != nil {
		return nil, nil, err
	}
	warnings, err := s.replaceImage(ctx, s.citySlot(), cityID, file)
	if err != nil {
		return nil, nil, err
	}
	city, err := s.cityRepo.GetByID(ctx, cityID)
	return city, warnings, err
}

// RemoveCityImage clears the city image
func (s *mediaServiceImpl) RemoveCityImage(ctx context.Context, cityID int64) (*models.City, []string, error) {
	if err := validateID(cityID, "city"); err != nil {
		return nil, nil, err
	}
	warnings, err := s.removeImage(ctx, s.citySlot(), cityID)
	if err != nil {
		return nil, warnings, err
	}
	city, err := s.cityRepo.GetByID(ctx, cityID)
	return city, warnings, err
}

// ReplaceUniversityImage sets a new university image
func (s *mediaServiceImpl) ReplaceUniversityImage(ctx context.Context, universityID int64, file *FileUpload) (*models.University, []string, error) {
	if err := validateID(universityID, "university"); err != nil {
		return nil, nil, err
	}
	warnings, err := s.replaceImage(ctx, s.universitySlot(), universityID, file)
	if err != nil {
		return nil, nil, err
	}
	university, err := s.universityRepo.GetByID(ctx, universityID)
	return university, warnings, err
}

// RemoveUniversityImage clears the university image
func (s *mediaServiceImpl) RemoveUniversityImage(ctx context.Context, universityID int64) (*models.University, []string, error) {
	if err := validateID(universityID, "university"); err != nil {
		return nil, nil, err
	}
	warnings, err := s.removeImage(ctx, s.universitySlot(), universityID)
	if err != nil {
		return nil, warnings, err
	}
	university, err := s.universityRepo.GetByID(ctx, universityID)
	return university, warnings, err
}

func documentRef(college *models.College, kind models.DocumentKind) (url, publicID *string) {
	if kind == models.DocumentBrochure {
		return college.BrochureURL, college.BrochurePublicID
	}
	return college.FeeStructurePDFURL, college.FeeStructurePublicID
}

// UploadCollegeDocument validates a PDF, stores it and puts it in the given slot of the
// college, replacing the previous document
func (s *mediaServiceImpl) UploadCollegeDocument(ctx context.Context, collegeID int64, kind models.DocumentKind, filename string, content []byte) (*models.College, []string, error) {
	if !kind.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidationFailed, kind)
	}
	if _, err := pdfcheck.Check(filename, content, s.cfg.Documents); err != nil {
		return nil, nil, err
	}
	college, err := s.requireCollege(ctx, collegeID)
	if err != nil {
		return nil, nil, err
	}
	oldURL, oldPublicID := documentRef(college, kind)

	result, err := s.upload(ctx, bytes.NewReader(content), mediastore.UploadOptions{
		Folder:   mediastore.FolderCollegeDocuments,
		Kind:     mediastore.KindRaw,
		Filename: filename,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.collegeRepo.SetDocument(ctx, collegeID, kind, &result.SecureURL, &result.PublicID); err != nil {
		s.discard(ctx, result.PublicID, mediastore.KindRaw)
		return nil, nil, apperrors.NewPersistError(err)
	}

	var warnings []string
	if w := destroyAsset(ctx, s.store, oldURL, oldPublicID, mediastore.KindRaw); w != "" {
		warnings = append(warnings, w)
	}

	updated, err := s.collegeRepo.GetByID(ctx, collegeID)
	return updated, warnings, err
}

// RemoveCollegeDocument clears a document slot of the college
func (s *mediaServiceImpl) RemoveCollegeDocument(ctx context.Context, collegeID int64, kind models.DocumentKind) (*models.College, []string, error) {
	if !kind.IsValid() {
		return nil, nil, fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidationFailed, kind)
	}
	college, err := s.requireCollege(ctx, collegeID)
	if err != nil {
		return nil, nil, err
	}
	oldURL, oldPublicID := documentRef(college, kind)
	if oldURL == nil && oldPublicID == nil {
		return college, nil, nil
	}

	var warnings []string
	if w := destroyAsset(ctx, s.store, oldURL, oldPublicID, mediastore.KindRaw); w != "" {
		warnings = append(warnings, w)
	}
	if err := s.collegeRepo.SetDocument(ctx, collegeID, kind, nil, nil); err != nil {
		return nil, warnings, fmt.Errorf("error clearing document: %w", err)
	}

	updated, err := s.collegeRepo.GetByID(ctx, collegeID)
	return updated, warnings, err
}
