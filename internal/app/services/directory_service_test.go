package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/app/repositories"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/helpers"
)

func TestCreateStateDerivesSlug(t *testing.T) {
	svc := NewStateService(newFakeStates())

	state, err := svc.CreateState(context.Background(), &dto.CreateStateRequest{Name: "  Andhra Pradesh "})
	require.NoError(t, err)
	assert.Equal(t, "Andhra Pradesh", state.Name)
	assert.Equal(t, "andhra-pradesh", state.Slug)
}

func TestCreateStateRejectsNamesWithoutSlug(t *testing.T) {
	svc := NewStateService(newFakeStates())

	for _, name := range []string{"", "   ", "!!!", "---"} {
		_, err := svc.CreateState(context.Background(), &dto.CreateStateRequest{Name: name})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, "name %q", name)
	}
}

func TestUpdateStateRegeneratesSlug(t *testing.T) {
	states := newFakeStates()
	svc := NewStateService(states)
	ctx := context.Background()
	state, err := svc.CreateState(ctx, &dto.CreateStateRequest{Name: "Orissa"})
	require.NoError(t, err)

	updated, err := svc.UpdateState(ctx, state.ID, &dto.UpdateStateRequest{Name: helpers.StringPtr("Odisha")})
	require.NoError(t, err)
	assert.Equal(t, "odisha", updated.Slug)

	same, err := svc.UpdateState(ctx, state.ID, &dto.UpdateStateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "odisha", same.Slug)

	_, err = svc.UpdateState(ctx, 99, &dto.UpdateStateRequest{Name: helpers.StringPtr("Goa")})
	assert.ErrorIs(t, err, apperrors.ErrStateNotFound)
}

func TestUpdateCityRegeneratesSlug(t *testing.T) {
	cities := newFakeCities()
	cities.rows[1] = &models.City{ID: 1, Name: "Bombay", Slug: "bombay", StateID: 1}
	svc := NewCityService(cities, newFakeMedia())

	city, err := svc.UpdateCity(context.Background(), 1, &dto.UpdateCityRequest{Name: helpers.StringPtr("Mumbai")})
	require.NoError(t, err)
	assert.Equal(t, "mumbai", city.Slug)
}

func TestDeleteCityCleansUpImage(t *testing.T) {
	cities := newFakeCities()
	cities.rows[1] = &models.City{ID: 1, ImageURL: helpers.StringPtr("u"), ImagePublicID: helpers.StringPtr("cities/images/1")}
	media := newFakeMedia()
	media.deleteErr["cities/images/1"] = errBoom
	svc := NewCityService(cities, media)

	warnings, err := svc.DeleteCity(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	assert.Empty(t, cities.rows)
	assert.Equal(t, []string{"cities/images/1"}, media.deletedIDs())
}

func TestDeleteCityWithoutStoredPublicID(t *testing.T) {
	cities := newFakeCities()
	cities.rows[1] = &models.City{ID: 1, ImageURL: helpers.StringPtr("https://legacy.test/pune.jpg")}
	media := newFakeMedia()
	svc := NewCityService(cities, media)

	warnings, err := svc.DeleteCity(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "https://legacy.test/pune.jpg")
	assert.Empty(t, cities.rows)
	assert.Empty(t, media.deletedIDs())
}

func TestDeleteUniversityCleansUpImage(t *testing.T) {
	universities := newFakeUniversities()
	universities.rows[1] = &models.University{ID: 1, ImageURL: helpers.StringPtr("u"), ImagePublicID: helpers.StringPtr("universities/images/1")}
	universities.rows[2] = &models.University{ID: 2, ImageURL: helpers.StringPtr("https://legacy.test/iit.png")}
	media := newFakeMedia()
	svc := NewUniversityService(universities, media)
	ctx := context.Background()

	warnings, err := svc.DeleteUniversity(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"universities/images/1"}, media.deletedIDs())

	warnings, err = svc.DeleteUniversity(ctx, 2)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "no stored public id")
	assert.Empty(t, universities.rows)
	assert.Len(t, media.deletedIDs(), 1)
}

func TestCreateCollegeSlugsAreUnique(t *testing.T) {
	colleges := newFakeColleges()
	svc := NewCollegeService(colleges, newFakeMediaRows())
	ctx := context.Background()

	first, err := svc.CreateCollege(ctx, &dto.CreateCollegeRequest{Name: "Test College", UniversityID: 1})
	require.NoError(t, err)
	second, err := svc.CreateCollege(ctx, &dto.CreateCollegeRequest{Name: "Test College", UniversityID: 1})
	require.NoError(t, err)

	assert.Equal(t, "test-college", first.Slug)
	assert.Equal(t, "test-college-1", second.Slug)
}

func TestUpdateCollegeKeepsSlug(t *testing.T) {
	colleges := newFakeColleges()
	svc := NewCollegeService(colleges, newFakeMediaRows())
	ctx := context.Background()
	created, err := svc.CreateCollege(ctx, &dto.CreateCollegeRequest{Name: "Test College", UniversityID: 1})
	require.NoError(t, err)

	updated, err := svc.UpdateCollege(ctx, created.ID, &dto.UpdateCollegeRequest{
		Name:          helpers.StringPtr("Renamed College"),
		CollegeFields: dto.CollegeFields{ContactPhone: helpers.StringPtr("  ")},
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed College", updated.Name)
	assert.Equal(t, "test-college", updated.Slug)
	require.Len(t, colleges.updates, 1)
	assert.NotContains(t, colleges.updates[0], "slug")
	assert.Contains(t, colleges.updates[0], "contact_phone")
	assert.Nil(t, colleges.updates[0]["contact_phone"])
}

func TestLinkCoursesReplacesSet(t *testing.T) {
	colleges := newFakeColleges()
	for id, name := range map[int64]string{1: "A", 2: "B", 3: "C"} {
		colleges.courses[id] = &models.Course{ID: id, Name: name}
	}
	svc := NewCollegeService(colleges, newFakeMediaRows())
	ctx := context.Background()
	college, err := svc.CreateCollege(ctx, &dto.CreateCollegeRequest{Name: "Test College", UniversityID: 1})
	require.NoError(t, err)

	_, err = svc.LinkCourses(ctx, college.ID, []int64{1, 2})
	require.NoError(t, err)
	courses, err := svc.LinkCourses(ctx, college.ID, []int64{3})
	require.NoError(t, err)

	require.Len(t, courses, 1)
	assert.Equal(t, int64(3), courses[0].ID)

	_, err = svc.LinkCourses(ctx, college.ID, []int64{0})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = svc.LinkCourses(ctx, 404, []int64{1})
	assert.ErrorIs(t, err, apperrors.ErrCollegeNotFound)
}

func TestGetCollegeDetail(t *testing.T) {
	colleges := newFakeColleges()
	colleges.courses[5] = &models.Course{ID: 5, Name: "MBBS"}
	rows := newFakeMediaRows()
	svc := NewCollegeService(colleges, rows)
	ctx := context.Background()

	college, err := svc.CreateCollege(ctx, &dto.CreateCollegeRequest{Name: "Medical College", UniversityID: 1, CourseIDs: []int64{5}})
	require.NoError(t, err)
	require.NoError(t, rows.CreateImage(ctx, &models.CollegeImage{CollegeID: college.ID, ImageURL: "a"}))
	require.NoError(t, rows.CreateVideo(ctx, &models.CollegeVideo{CollegeID: college.ID, VideoURL: "v", Platform: models.PlatformYouTube}))

	detail, err := svc.GetCollegeBySlug(ctx, "medical-college")
	require.NoError(t, err)
	assert.Equal(t, college.ID, detail.ID)
	assert.Len(t, detail.Courses, 1)
	assert.Len(t, detail.Images, 1)
	assert.Len(t, detail.Videos, 1)

	_, err = svc.GetCollegeByID(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrCollegeNotFound)
}

// recordingCourses keeps the last created course and the last update
type recordingCourses struct {
	created *models.Course
	fields  map[string]interface{}
}

func (r *recordingCourses) GetBySlug(context.Context, string) (*models.Course, error) {
	return nil, apperrors.ErrCourseNotFound
}

func (r *recordingCourses) Create(_ context.Context, c *models.Course) error {
	c.ID = 1
	r.created = c
	return nil
}

func (r *recordingCourses) GetByID(_ context.Context, id int64) (*models.Course, error) {
	if r.created == nil || id != r.created.ID {
		return nil, apperrors.ErrCourseNotFound
	}
	return r.created, nil
}

func (r *recordingCourses) List(context.Context, repositories.CourseFilter) ([]*models.Course, error) {
	return nil, nil
}

func (r *recordingCourses) Update(_ context.Context, _ int64, fields map[string]interface{}) error {
	r.fields = fields
	return nil
}

func (r *recordingCourses) Delete(context.Context, int64) error { return nil }

func TestCreateCourseClassifies(t *testing.T) {
	repo := &recordingCourses{}
	svc := NewCourseService(repo)

	course, err := svc.CreateCourse(context.Background(), &dto.CreateCourseRequest{Name: "MBBS Program"})
	require.NoError(t, err)
	assert.Equal(t, "mbbs-program", course.Slug)
	assert.Equal(t, "Medical", course.Category)
	assert.Equal(t, "MBBS", course.Degree)
	assert.Equal(t, 5.5, course.DurationYears)
}

func TestUpdateCourseDoesNotReclassify(t *testing.T) {
	repo := &recordingCourses{}
	svc := NewCourseService(repo)
	ctx := context.Background()
	_, err := svc.CreateCourse(ctx, &dto.CreateCourseRequest{Name: "B.Tech Civil"})
	require.NoError(t, err)

	_, err = svc.UpdateCourse(ctx, 1, &dto.UpdateCourseRequest{Name: helpers.StringPtr("MBA Finance")})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"name": "MBA Finance", "slug": "mba-finance"}, repo.fields)
}
