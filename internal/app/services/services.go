package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/repositories"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/slug"
)

// Services defined in this package:
// - StateService, CityService, UniversityService, CollegeService, CourseService: directory CRUD
// - MediaService: uploads, attachments and cascading media cleanup
// - UserService: console accounts and the super-admin rule
// - AuthService: console login, logout and current principal

// The store interfaces below are what the services need from the repositories package.
// *repositories.XxxRepository satisfies each of them.

// StateStore persists states
type StateStore interface {
	Create(ctx context.Context, state *models.State) error
	GetByID(ctx context.Context, id int64) (*models.State, error)
	GetBySlug(ctx context.Context, slug string) (*models.State, error)
	List(ctx context.Context) ([]*models.State, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

// CityStore persists cities
type CityStore interface {
	Create(ctx context.Context, city *models.City) error
	GetByID(ctx context.Context, id int64) (*models.City, error)
	GetBySlug(ctx context.Context, slug string) (*models.City, error)
	List(ctx context.Context, filter repositories.CityFilter) ([]*models.City, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	SetImage(ctx context.Context, id int64, url, publicID *string) error
	Delete(ctx context.Context, id int64) error
}

// UniversityStore persists universities
type UniversityStore interface {
	Create(ctx context.Context, university *models.University) error
	GetByID(ctx context.Context, id int64) (*models.University, error)
	GetBySlug(ctx context.Context, slug string) (*models.University, error)
	List(ctx context.Context, filter repositories.UniversityFilter) ([]*models.University, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	SetImage(ctx context.Context, id int64, url, publicID *string) error
	Delete(ctx context.Context, id int64) error
}

// CollegeStore persists colleges and their course links
type CollegeStore interface {
	Create(ctx context.Context, college *models.College, courseIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.College, error)
	GetBySlug(ctx context.Context, slug string) (*models.College, error)
	List(ctx context.Context, filter repositories.CollegeFilter) ([]*models.College, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	SetDocument(ctx context.Context, id int64, kind models.DocumentKind, url, publicID *string) error
	Delete(ctx context.Context, id int64) error
	LinkCourses(ctx context.Context, collegeID int64, courseIDs []int64) error
	ListCourses(ctx context.Context, collegeID int64) ([]*models.Course, error)
}

// CourseStore persists catalog courses
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	List(ctx context.Context, filter repositories.CourseFilter) ([]*models.Course, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

// MediaStore persists college image and video rows
type MediaStore interface {
	CreateImage(ctx context.Context, image *models.CollegeImage) error
	GetImage(ctx context.Context, id int64) (*models.CollegeImage, error)
	ListImages(ctx context.Context, collegeID int64) ([]*models.CollegeImage, error)
	DeleteImage(ctx context.Context, id int64) error
	ReorderImages(ctx context.Context, collegeID int64, ids []int64) error
	CreateVideo(ctx context.Context, video *models.CollegeVideo) error
	GetVideo(ctx context.Context, id int64) (*models.CollegeVideo, error)
	ListVideos(ctx context.Context, collegeID int64) ([]*models.CollegeVideo, error)
	DeleteVideo(ctx context.Context, id int64) error
	ReorderVideos(ctx context.Context, collegeID int64, ids []int64) error
}

// IdentityStore persists login identities
type IdentityStore interface {
	Create(ctx context.Context, identity *models.Identity) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	List(ctx context.Context) ([]*models.Identity, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfileStore persists user profiles
type ProfileStore interface {
	Create(ctx context.Context, profile *models.UserProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	List(ctx context.Context) ([]*models.UserProfile, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error
}

// externalCallTimeout bounds a single call to the media store
const externalCallTimeout = 60 * time.Second

// slugFromName validates a display name and derives its slug
func slugFromName(name string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	s := slug.Slugify(name)
	if s == "" {
		return "", "", fmt.Errorf("%w: name must contain at least one letter or digit", apperrors.ErrValidationFailed)
	}
	return name, s, nil
}

func validateID(id int64, what string) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid %s ID", apperrors.ErrValidationFailed, what)
	}
	return nil
}
