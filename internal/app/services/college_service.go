package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/app/repositories"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/helpers"
	"golang.org/x/sync/errgroup"
)

// CollegeService defines the interface for college operations. Deletion lives in
// MediaService because it must clean up media first.
type CollegeService interface {
	CreateCollege(ctx context.Context, req *dto.CreateCollegeRequest) (*models.College, error)
	GetCollegeByID(ctx context.Context, id int64) (*models.CollegeDetail, error)
	GetCollegeBySlug(ctx context.Context, slug string) (*models.CollegeDetail, error)
	GetColleges(ctx context.Context, universityID *int64) ([]*models.College, error)
	UpdateCollege(ctx context.Context, id int64, req *dto.UpdateCollegeRequest) (*models.College, error)
	LinkCourses(ctx context.Context, collegeID int64, courseIDs []int64) ([]*models.Course, error)
	GetCollegeCourses(ctx context.Context, collegeID int64) ([]*models.Course, error)
}

type collegeServiceImpl struct {
	collegeRepo CollegeStore
	mediaRepo   MediaStore
}

// NewCollegeService creates a new college service instance
func NewCollegeService(collegeRepo CollegeStore, mediaRepo MediaStore) CollegeService {
	return &collegeServiceImpl{collegeRepo: collegeRepo, mediaRepo: mediaRepo}
}

// CreateCollege creates a college. Its slug is the slugified name, suffixed -1, -2, …
// when taken, and never changes afterwards.
func (s *collegeServiceImpl) CreateCollege(ctx context.Context, req *dto.CreateCollegeRequest) (*models.College, error) {
	name, slug, err := slugFromName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := validateID(req.UniversityID, "university"); err != nil {
		return nil, err
	}
	for _, id := range req.CourseIDs {
		if err := validateID(id, "course"); err != nil {
			return nil, err
		}
	}

	college := &models.College{
		Name:             name,
		Slug:             slug,
		UniversityID:     req.UniversityID,
		Specialization:   helpers.NilIfBlank(req.Specialization),
		ShortDescription: helpers.NilIfBlank(req.ShortDescription),
		LongDescription:  helpers.NilIfBlank(req.LongDescription),
		Description:      helpers.NilIfBlank(req.Description),
		ContactEmail:     helpers.NilIfBlank(req.ContactEmail),
		ContactPhone:     helpers.NilIfBlank(req.ContactPhone),
		WebsiteURL:       helpers.NilIfBlank(req.WebsiteURL),
	}

	if err := s.collegeRepo.Create(ctx, college, req.CourseIDs); err != nil {
		if apperrors.Is(err, apperrors.ErrUniversityNotFound, apperrors.ErrCourseNotFound, apperrors.ErrSlugTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating college: %w", err)
	}
	return s.getCollege(ctx, college.ID)
}

func (s *collegeServiceImpl) getCollege(ctx context.Context, id int64) (*models.College, error) {
	college, err := s.collegeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrCollegeNotFound) {
			return nil, apperrors.ErrCollegeNotFound
		}
		return nil, fmt.Errorf("error retrieving college: %w", err)
	}
	return college, nil
}

// GetCollegeByID retrieves a college with its courses, images and videos
func (s *collegeServiceImpl) GetCollegeByID(ctx context.Context, id int64) (*models.CollegeDetail, error) {
	if err := validateID(id, "college"); err != nil {
		return nil, err
	}

	college, err := s.getCollege(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, college)
}

// GetCollegeBySlug retrieves a college detail by slug
func (s *collegeServiceImpl) GetCollegeBySlug(ctx context.Context, slug string) (*models.CollegeDetail, error) {
	college, err := s.collegeRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrCollegeNotFound) {
			return nil, apperrors.ErrCollegeNotFound
		}
		return nil, fmt.Errorf("error retrieving college: %w", err)
	}
	return s.detail(ctx, college)
}

// detail loads the linked rows of a college concurrently
func (s *collegeServiceImpl) detail(ctx context.Context, college *models.College) (*models.CollegeDetail, error) {
	var (
		courses []*models.Course
		images  []*models.CollegeImage
		videos  []*models.CollegeVideo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = s.collegeRepo.ListCourses(gctx, college.ID)
		return err
	})
	g.Go(func() error {
		var err error
		images, err = s.mediaRepo.ListImages(gctx, college.ID)
		return err
	})
	g.Go(func() error {
		var err error
		videos, err = s.mediaRepo.ListVideos(gctx, college.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("error retrieving college details: %w", err)
	}

	d := &models.CollegeDetail{
		College: *college,
		Courses: make([]models.Course, 0, len(courses)),
		Images:  make([]models.CollegeImage, 0, len(images)),
		Videos:  make([]models.CollegeVideo, 0, len(videos)),
	}
	for _, c := range courses {
		d.Courses = append(d.Courses, *c)
	}
	for _, im := range images {
		d.Images = append(d.Images, *im)
	}
	for _, v := range videos {
		d.Videos = append(d.Videos, *v)
	}
	return d, nil
}

// GetColleges lists colleges with location and cover image, optionally for one university
func (s *collegeServiceImpl) GetColleges(ctx context.Context, universityID *int64) ([]*models.College, error) {
	colleges, err := s.collegeRepo.List(ctx, repositories.CollegeFilter{UniversityID: universityID})
	if err != nil {
		return nil, fmt.Errorf("error retrieving colleges: %w", err)
	}
	return colleges, nil
}

// UpdateCollege applies a partial update. Renaming keeps the existing slug.
func (s *collegeServiceImpl) UpdateCollege(ctx context.Context, id int64, req *dto.UpdateCollegeRequest) (*models.College, error) {
	if err := validateID(id, "college"); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		name, _, err := slugFromName(*req.Name)
		if err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if req.UniversityID != nil {
		if err := validateID(*req.UniversityID, "university"); err != nil {
			return nil, err
		}
		fields["university_id"] = *req.UniversityID
	}

	optional := map[string]*string{
		"specialization":    req.Specialization,
		"short_description": req.ShortDescription,
		"long_description":  req.LongDescription,
		"description":       req.Description,
		"contact_email":     req.ContactEmail,
		"contact_phone":     req.ContactPhone,
		"website_url":       req.WebsiteURL,
	}
	for column, value := range optional {
		if value != nil {
			fields[column] = helpers.NilIfBlank(value)
		}
	}

	if len(fields) > 0 {
		if err := s.collegeRepo.Update(ctx, id, fields); err != nil {
			if apperrors.Is(err, apperrors.ErrCollegeNotFound, apperrors.ErrUniversityNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("error updating college: %w", err)
		}
	}
	return s.getCollege(ctx, id)
}

// LinkCourses replaces the course links of a college and returns the new set
func (s *collegeServiceImpl) LinkCourses(ctx context.Context, collegeID int64, courseIDs []int64) ([]*models.Course, error) {
	if err := validateID(collegeID, "college"); err != nil {
		return nil, err
	}
	for _, id := range courseIDs {
		if err := validateID(id, "course"); err != nil {
			return nil, err
		}
	}

	if err := s.collegeRepo.LinkCourses(ctx, collegeID, courseIDs); err != nil {
		if apperrors.Is(err, apperrors.ErrCollegeNotFound, apperrors.ErrCourseNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error linking courses: %w", err)
	}
	return s.GetCollegeCourses(ctx, collegeID)
}

// GetCollegeCourses lists the courses linked to a college
func (s *collegeServiceImpl) GetCollegeCourses(ctx context.Context, collegeID int64) ([]*models.Course, error) {
	if err := validateID(collegeID, "college"); err != nil {
		return nil, err
	}

	courses, err := s.collegeRepo.ListCourses(ctx, collegeID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving college courses: %w", err)
	}
	return courses, nil
}
