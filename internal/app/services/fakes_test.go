package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/repositories"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"github.com/yigit/edudirectory/internal/pkg/mediastore"
	"github.com/yigit/edudirectory/internal/pkg/slug"
)

var errBoom = errors.New("boom")

// fakeMedia is an in-memory mediastore.Store
type fakeMedia struct {
	mu        sync.Mutex
	seq       int
	uploads   []mediastore.UploadOptions
	deleted   []string
	uploadErr error
	deleteErr map[string]error
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{deleteErr: map[string]error{}}
}

func (f *fakeMedia) Upload(_ context.Context, r io.Reader, opts mediastore.UploadOptions) (*mediastore.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	f.seq++
	f.uploads = append(f.uploads, opts)
	id := fmt.Sprintf("%s/asset-%d", opts.Folder, f.seq)
	return &mediastore.UploadResult{PublicID: id, SecureURL: "https://cdn.test/" + id}, nil
}

func (f *fakeMedia) Delete(_ context.Context, publicID string, _ mediastore.ResourceKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	return f.deleteErr[publicID]
}

func (f *fakeMedia) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.deleted...)
	sort.Strings(out)
	return out
}

type fakeStates struct {
	rows map[int64]*models.State
	seq  int64
}

func newFakeStates() *fakeStates { return &fakeStates{rows: map[int64]*models.State{}} }

func (f *fakeStates) Create(_ context.Context, s *models.State) error {
	f.seq++
	s.ID = f.seq
	s.CreatedAt = time.Now()
	cp := *s
	f.rows[s.ID] = &cp
	return nil
}

func (f *fakeStates) GetByID(_ context.Context, id int64) (*models.State, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrStateNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStates) GetBySlug(_ context.Context, sl string) (*models.State, error) {
	for _, s := range f.rows {
		if s.Slug == sl {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStateNotFound
}

func (f *fakeStates) List(context.Context) ([]*models.State, error) {
	out := make([]*models.State, 0, len(f.rows))
	for _, s := range f.rows {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStates) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	s, ok := f.rows[id]
	if !ok {
		return apperrors.ErrStateNotFound
	}
	if v, ok := fields["name"]; ok {
		s.Name = v.(string)
	}
	if v, ok := fields["slug"]; ok {
		s.Slug = v.(string)
	}
	return nil
}

func (f *fakeStates) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrStateNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeCities struct {
	rows   map[int64]*models.City
	setErr error
}

func newFakeCities() *fakeCities { return &fakeCities{rows: map[int64]*models.City{}} }

func (f *fakeCities) Create(_ context.Context, c *models.City) error {
	c.ID = int64(len(f.rows) + 1)
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCities) GetByID(_ context.Context, id int64) (*models.City, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrCityNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCities) GetBySlug(context.Context, string) (*models.City, error) {
	return nil, apperrors.ErrCityNotFound
}

func (f *fakeCities) List(context.Context, repositories.CityFilter) ([]*models.City, error) {
	return nil, nil
}

func (f *fakeCities) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	c, ok := f.rows[id]
	if !ok {
		return apperrors.ErrCityNotFound
	}
	if v, ok := fields["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := fields["slug"]; ok {
		c.Slug = v.(string)
	}
	return nil
}

func (f *fakeCities) SetImage(_ context.Context, id int64, url, publicID *string) error {
	if f.setErr != nil {
		return f.setErr
	}
	c, ok := f.rows[id]
	if !ok {
		return apperrors.ErrCityNotFound
	}
	c.ImageURL, c.ImagePublicID = url, publicID
	return nil
}

func (f *fakeCities) Delete(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrCityNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeUniversities struct {
	rows map[int64]*models.University
}

func newFakeUniversities() *fakeUniversities {
	return &fakeUniversities{rows: map[int64]*models.University{}}
}

func (f *fakeUniversities) Create(_ context.Context, u *models.University) error {
	u.ID = int64(len(f.rows) + 1)
	cp := *u
	f.rows[u.ID] = &cp
	return nil
}

func (f *fakeUniversities) GetByID(_ context.Context, id int64) (*models.University, error) {
	u, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrUniversityNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUniversities) GetBySlug(context.Context, string) (*models.University, error) {
	return nil, apperrors.ErrUniversityNotFound
}

func (f *fakeUniversities) List(context.Context, repositories.UniversityFilter) ([]*models.University, error) {
	return nil, nil
}

func (f *fakeUniversities) Update(context.Context, int64, map[string]interface{}) error {
	return nil
}

func (f *fakeUniversities) SetImage(_ context.Context, id int64, url, publicID *string) error {
	u, ok := f.rows[id]
	if !ok {
		return apperrors.ErrUniversityNotFound
	}
	u.ImageURL, u.ImagePublicID = url, publicID
	return nil
}

func (f *fakeUniversities) Delete(_ context.Context, id int64) error {
	delete(f.rows, id)
	return nil
}

type fakeColleges struct {
	rows      map[int64]*models.College
	links     map[int64][]int64
	courses   map[int64]*models.Course
	updates   []map[string]interface{}
	deleteErr error
	seq       int64
}

func newFakeColleges() *fakeColleges {
	return &fakeColleges{
		rows:    map[int64]*models.College{},
		links:   map[int64][]int64{},
		courses: map[int64]*models.Course{},
	}
}

func (f *fakeColleges) Create(_ context.Context, c *models.College, courseIDs []int64) error {
	base := c.Slug
	for n := 0; ; n++ {
		candidate := slug.WithSuffix(base, n)
		taken := false
		for _, existing := range f.rows {
			if existing.Slug == candidate {
				taken = true
				break
			}
		}
		if !taken {
			c.Slug = candidate
			break
		}
	}
	f.seq++
	c.ID = f.seq
	cp := *c
	f.rows[c.ID] = &cp
	f.links[c.ID] = append([]int64(nil), courseIDs...)
	return nil
}

func (f *fakeColleges) GetByID(_ context.Context, id int64) (*models.College, error) {
	c, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrCollegeNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeColleges) GetBySlug(_ context.Context, sl string) (*models.College, error) {
	for _, c := range f.rows {
		if c.Slug == sl {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperrors.ErrCollegeNotFound
}

func (f *fakeColleges) List(context.Context, repositories.CollegeFilter) ([]*models.College, error) {
	return nil, nil
}

func (f *fakeColleges) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	c, ok := f.rows[id]
	if !ok {
		return apperrors.ErrCollegeNotFound
	}
	f.updates = append(f.updates, fields)
	if v, ok := fields["name"]; ok {
		c.Name = v.(string)
	}
	return nil
}

func (f *fakeColleges) SetDocument(_ context.Context, id int64, kind models.DocumentKind, url, publicID *string) error {
	c, ok := f.rows[id]
	if !ok {
		return apperrors.ErrCollegeNotFound
	}
	if kind == models.DocumentBrochure {
		c.BrochureURL, c.BrochurePublicID = url, publicID
	} else {
		c.FeeStructurePDFURL, c.FeeStructurePublicID = url, publicID
	}
	return nil
}

func (f *fakeColleges) Delete(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrCollegeNotFound
	}
	delete(f.rows, id)
	delete(f.links, id)
	return nil
}

func (f *fakeColleges) LinkCourses(_ context.Context, collegeID int64, courseIDs []int64) error {
	if _, ok := f.rows[collegeID]; !ok {
		return apperrors.ErrCollegeNotFound
	}
	f.links[collegeID] = append([]int64(nil), courseIDs...)
	return nil
}

func (f *fakeColleges) ListCourses(_ context.Context, collegeID int64) ([]*models.Course, error) {
	var out []*models.Course
	for _, id := range f.links[collegeID] {
		if c, ok := f.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeMediaRows struct {
	mu        sync.Mutex
	images    map[int64]*models.CollegeImage
	videos    map[int64]*models.CollegeVideo
	seq       int64
	createErr error
}

func newFakeMediaRows() *fakeMediaRows {
	return &fakeMediaRows{images: map[int64]*models.CollegeImage{}, videos: map[int64]*models.CollegeVideo{}}
}

func (f *fakeMediaRows) CreateImage(_ context.Context, im *models.CollegeImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	im.ID = f.seq
	cp := *im
	f.images[im.ID] = &cp
	return nil
}

func (f *fakeMediaRows) GetImage(_ context.Context, id int64) (*models.CollegeImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	im, ok := f.images[id]
	if !ok {
		return nil, apperrors.ErrImageNotFound
	}
	cp := *im
	return &cp, nil
}

func (f *fakeMediaRows) ListImages(_ context.Context, collegeID int64) ([]*models.CollegeImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.CollegeImage
	for _, im := range f.images {
		if im.CollegeID == collegeID {
			out = append(out, im)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMediaRows) DeleteImage(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.images[id]; !ok {
		return apperrors.ErrImageNotFound
	}
	delete(f.images, id)
	return nil
}

func (f *fakeMediaRows) ReorderImages(context.Context, int64, []int64) error { return nil }

func (f *fakeMediaRows) CreateVideo(_ context.Context, v *models.CollegeVideo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	v.ID = f.seq
	cp := *v
	f.videos[v.ID] = &cp
	return nil
}

func (f *fakeMediaRows) GetVideo(_ context.Context, id int64) (*models.CollegeVideo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return nil, apperrors.ErrVideoNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeMediaRows) ListVideos(_ context.Context, collegeID int64) ([]*models.CollegeVideo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.CollegeVideo
	for _, v := range f.videos {
		if v.CollegeID == collegeID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMediaRows) DeleteVideo(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.videos[id]; !ok {
		return apperrors.ErrVideoNotFound
	}
	delete(f.videos, id)
	return nil
}

func (f *fakeMediaRows) ReorderVideos(context.Context, int64, []int64) error { return nil }

type fakeIdentities struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*models.Identity
	deleted []uuid.UUID
}

func newFakeIdentities() *fakeIdentities {
	return &fakeIdentities{rows: map[uuid.UUID]*models.Identity{}}
}

func (f *fakeIdentities) Create(_ context.Context, i *models.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.Email == i.Email {
			return apperrors.ErrEmailTaken
		}
	}
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	now := time.Now()
	i.EmailConfirmedAt = &now
	i.CreatedAt = now
	cp := *i
	f.rows[i.ID] = &cp
	return nil
}

func (f *fakeIdentities) GetByID(_ context.Context, id uuid.UUID) (*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *i
	return &cp, nil
}

func (f *fakeIdentities) GetByEmail(_ context.Context, email string) (*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.rows {
		if i.Email == email {
			cp := *i
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeIdentities) List(context.Context) ([]*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Identity, 0, len(f.rows))
	for _, i := range f.rows {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Email < out[b].Email })
	return out, nil
}

func (f *fakeIdentities) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeProfiles struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*models.UserProfile
	createErr error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{rows: map[uuid.UUID]*models.UserProfile{}}
}

func (f *fakeProfiles) Create(_ context.Context, p *models.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakeProfiles) GetByID(_ context.Context, id uuid.UUID) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) List(context.Context) ([]*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.UserProfile, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProfiles) UpdateRole(_ context.Context, id uuid.UUID, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	p.Role = role
	return nil
}
