package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
)

var (
	lockSQL         = regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")
	slugExistsSQL   = regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM colleges WHERE slug = $1 )")
	collegeInsert   = regexp.QuoteMeta("INSERT INTO colleges (name,slug,university_id,")
	collegeExists   = regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM colleges WHERE id = $1 )")
	unlinkCourses   = regexp.QuoteMeta("DELETE FROM college_courses WHERE college_id = $1")
	linkCoursesStmt = regexp.QuoteMeta("INSERT INTO college_courses (college_id,course_id) VALUES ")
)

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func expectCollegeInsert(mock pgxmock.PgxPoolIface, name, slug string, universityID, id int64) {
	args := append([]interface{}{name, slug, universityID}, anyArgs(9)...)
	mock.ExpectQuery(collegeInsert).
		WithArgs(args...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, time.Now()))
}

func TestCreateCollegeResolvesSlugCollisions(t *testing.T) {
	mock := newMock(t)
	repo := NewCollegeRepository(mock)
	ctx := context.Background()

	// first college takes the base slug
	mock.ExpectBegin()
	mock.ExpectExec(lockSQL).WithArgs("college-slug:test-college").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(slugExistsSQL).WithArgs("test-college").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	expectCollegeInsert(mock, "Test College", "test-college", 7, 1)
	mock.ExpectCommit()

	// second college with the same name gets -1
	mock.ExpectBegin()
	mock.ExpectExec(lockSQL).WithArgs("college-slug:test-college").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(slugExistsSQL).WithArgs("test-college").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(slugExistsSQL).WithArgs("test-college-1").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	expectCollegeInsert(mock, "Test College", "test-college-1", 7, 2)
	mock.ExpectCommit()

	first := &models.College{Name: "Test College", Slug: "test-college", UniversityID: 7}
	require.NoError(t, repo.Create(ctx, first, nil))

	second := &models.College{Name: "Test College", Slug: "test-college", UniversityID: 7}
	require.NoError(t, repo.Create(ctx, second, nil))

	assert.Equal(t, "test-college", first.Slug)
	assert.Equal(t, "test-college-1", second.Slug)
	assert.Equal(t, int64(2), second.ID)
}

func TestCreateCollegeLinksInitialCourses(t *testing.T) {
	mock := newMock(t)
	repo := NewCollegeRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(lockSQL).WithArgs("college-slug:iit-delhi").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(slugExistsSQL).WithArgs("iit-delhi").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	expectCollegeInsert(mock, "IIT Delhi", "iit-delhi", 3, 11)
	mock.ExpectExec(linkCoursesStmt+regexp.QuoteMeta("($1,$2),($3,$4)")).
		WithArgs(int64(11), int64(4), int64(11), int64(9)).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	college := &models.College{Name: "IIT Delhi", Slug: "iit-delhi", UniversityID: 3}
	require.NoError(t, repo.Create(context.Background(), college, []int64{4, 9, 4}))
}

func TestCreateCollegeUnknownUniversityRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewCollegeRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec(lockSQL).WithArgs("college-slug:orphan").WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery(slugExistsSQL).WithArgs("orphan").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(collegeInsert).
		WithArgs(append([]interface{}{"Orphan", "orphan", int64(404)}, anyArgs(9)...)...).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.College{Name: "Orphan", Slug: "orphan", UniversityID: 404}, nil)
	assert.ErrorIs(t, err, apperrors.ErrUniversityNotFound)
}

func TestLinkCoursesReplacesExistingLinks(t *testing.T) {
	mock := newMock(t)
	repo := NewCollegeRepository(mock)
	ctx := context.Background()

	// link [1, 2]
	mock.ExpectBegin()
	mock.ExpectQuery(collegeExists).WithArgs(int64(5)).WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(unlinkCourses).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(linkCoursesStmt+regexp.QuoteMeta("($1,$2),($3,$4)")).
		WithArgs(int64(5), int64(1), int64(5), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	// then [3]: the previous links are deleted before the single insert
	mock.ExpectBegin()
	mock.ExpectQuery(collegeExists).WithArgs(int64(5)).WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(unlinkCourses).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(linkCoursesStmt+regexp.QuoteMeta("($1,$2)")).
		WithArgs(int64(5), int64(3)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.LinkCourses(ctx, 5, []int64{1, 2}))
	require.NoError(t, repo.LinkCourses(ctx, 5, []int64{3}))
}

func TestLinkCoursesEmptyListClearsLinks(t *testing.T) {
	mock := newMock(t)
	repo := NewCollegeRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(collegeExists).WithArgs(int64(5)).WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(unlinkCourses).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCommit()

	require.NoError(t, repo.LinkCourses(context.Background(), 5, []int64{}))
}

func TestLinkCoursesFailureKeepsPreviousLinks(t *testing.T) {
	mock := newMock(t)
	repo := NewCollegeRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(collegeExists).WithArgs(int64(5)).WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(unlinkCourses).WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(linkCoursesStmt).
		WithArgs(int64(5), int64(999)).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	err := repo.LinkCourses(context.Background(), 5, []int64{999})
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestLinkCoursesUnknownCollege(t *testing.T) {
	mock := newMock(t)
	repo := NewCollegeRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(collegeExists).WithArgs(int64(8)).WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	err := repo.LinkCourses(context.Background(), 8, []int64{1})
	assert.ErrorIs(t, err, apperrors.ErrCollegeNotFound)
}
