package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/edudirectory/internal/app/models"
	"github.com/yigit/edudirectory/internal/app/models/dto"
	"github.com/yigit/edudirectory/internal/pkg/apperrors"
)

const superAdmin = "root@edu.test"

type userFixture struct {
	identities *fakeIdentities
	profiles   *fakeProfiles
	svc        UserService
}

func newUserFixture() *userFixture {
	f := &userFixture{identities: newFakeIdentities(), profiles: newFakeProfiles()}
	f.svc = NewUserService(f.identities, f.profiles, "  Root@Edu.test ")
	return f
}

func (f *userFixture) seed(t *testing.T, email string, role models.Role) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, f.identities.Create(context.Background(), &models.Identity{ID: id, Email: email}))
	require.NoError(t, f.profiles.Create(context.Background(), &models.UserProfile{ID: id, Email: email, Role: role}))
	return id
}

func TestIsSuperAdmin(t *testing.T) {
	f := newUserFixture()
	assert.True(t, f.svc.IsSuperAdmin("ROOT@edu.test"))
	assert.False(t, f.svc.IsSuperAdmin("other@edu.test"))
	assert.False(t, NewUserService(f.identities, f.profiles, "").IsSuperAdmin(""))
}

func TestCreateAdminRequiresSuperAdmin(t *testing.T) {
	f := newUserFixture()

	_, err := f.svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Email: "new@edu.test", Password: "password123", Role: "admin",
	}, "not-super@x.com")

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	assert.Empty(t, f.identities.rows)
	assert.Empty(t, f.profiles.rows)
}

func TestSuperAdminCreatesAdmin(t *testing.T) {
	f := newUserFixture()

	user, err := f.svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Email: "New@Edu.test", Password: "password123", Role: "admin",
	}, superAdmin)
	require.NoError(t, err)

	assert.Equal(t, "new@edu.test", user.Email)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.HasProfile)
	assert.NotNil(t, user.EmailConfirmedAt)
	assert.NotEqual(t, "password123", f.identities.rows[user.ID].PasswordHash)
}

func TestCreateUserDefaultsToUserRole(t *testing.T) {
	f := newUserFixture()

	user, err := f.svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Email: "plain@edu.test", Password: "password123",
	}, "admin@edu.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestCreateUserRemovesIdentityWhenProfileFails(t *testing.T) {
	f := newUserFixture()
	f.profiles.createErr = errBoom

	_, err := f.svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Email: "new@edu.test", Password: "password123",
	}, superAdmin)

	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, f.identities.rows)
	assert.Len(t, f.identities.deleted, 1)
}

func TestCreateUserValidation(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	_, err := f.svc.CreateUser(ctx, &dto.CreateUserRequest{Email: "not-an-email", Password: "password123"}, superAdmin)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.CreateUser(ctx, &dto.CreateUserRequest{Email: "a@b.test", Password: "short"}, superAdmin)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.CreateUser(ctx, &dto.CreateUserRequest{Email: "a@b.test", Password: "password123", Role: "owner"}, superAdmin)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateUserRejectsMalformedEmails(t *testing.T) {
	f := newUserFixture()

	for _, email := range []string{"", "   ", "Root <root@edu.test>", "root@", "@edu.test", "root edu@edu.test"} {
		_, err := f.svc.CreateUser(context.Background(), &dto.CreateUserRequest{Email: email, Password: "password123"}, superAdmin)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, email)
	}
	assert.Empty(t, f.identities.rows)
}

func TestOnlySuperAdminCreatesSuperAdminAccount(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()

	for _, caller := range []string{"admin@edu.test", ""} {
		_, err := f.svc.CreateUser(ctx, &dto.CreateUserRequest{
			Email: " ROOT@edu.test", Password: "password123", Role: "user",
		}, caller)
		assert.ErrorIs(t, err, apperrors.ErrProtected, caller)
	}
	assert.Empty(t, f.identities.rows)
	assert.Empty(t, f.profiles.rows)

	user, err := f.svc.CreateUser(ctx, &dto.CreateUserRequest{Email: superAdmin, Password: "password123"}, superAdmin)
	require.NoError(t, err)
	assert.True(t, user.IsSuperAdmin)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestGetUsersJoinsProfiles(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	f.seed(t, "admin@edu.test", models.RoleAdmin)
	orphan := uuid.New()
	require.NoError(t, f.identities.Create(ctx, &models.Identity{ID: orphan, Email: "orphan@edu.test"}))

	users, err := f.svc.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	byEmail := map[string]*models.User{}
	for _, u := range users {
		byEmail[u.Email] = u
	}
	assert.Equal(t, models.RoleAdmin, byEmail["admin@edu.test"].Role)
	assert.Equal(t, models.RoleUser, byEmail["orphan@edu.test"].Role)
	assert.False(t, byEmail["orphan@edu.test"].HasProfile)
}

func TestDeleteSuperAdminIsAlwaysRefused(t *testing.T) {
	f := newUserFixture()
	id := f.seed(t, superAdmin, models.RoleAdmin)

	for _, caller := range []string{superAdmin, "admin@edu.test", ""} {
		err := f.svc.DeleteUser(context.Background(), id, caller)
		assert.Error(t, err, caller)
		assert.ErrorIs(t, err, apperrors.ErrProtected, caller)
	}
	assert.Contains(t, f.identities.rows, id)
}

func TestDeleteAdminRequiresSuperAdmin(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	id := f.seed(t, "admin@edu.test", models.RoleAdmin)

	err := f.svc.DeleteUser(ctx, id, "other-admin@edu.test")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	require.NoError(t, f.svc.DeleteUser(ctx, id, superAdmin))
	assert.NotContains(t, f.identities.rows, id)
}

func TestDeleteRegularUser(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	id := f.seed(t, "user@edu.test", models.RoleUser)

	require.NoError(t, f.svc.DeleteUser(ctx, id, "admin@edu.test"))
	assert.ErrorIs(t, f.svc.DeleteUser(ctx, id, "admin@edu.test"), apperrors.ErrUserNotFound)
}

func TestUpdateUserRole(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	id := f.seed(t, "user@edu.test", models.RoleUser)

	_, err := f.svc.UpdateUserRole(ctx, id, models.RoleAdmin, "admin@edu.test")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	user, err := f.svc.UpdateUserRole(ctx, id, models.RoleAdmin, superAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = f.svc.UpdateUserRole(ctx, id, models.Role("owner"), superAdmin)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateUserRoleCreatesMissingProfile(t *testing.T) {
	f := newUserFixture()
	ctx := context.Background()
	id := uuid.New()
	require.NoError(t, f.identities.Create(ctx, &models.Identity{ID: id, Email: "orphan@edu.test"}))

	user, err := f.svc.UpdateUserRole(ctx, id, models.RoleAdmin, superAdmin)
	require.NoError(t, err)
	assert.True(t, user.HasProfile)
	assert.Equal(t, models.RoleAdmin, f.profiles.rows[id].Role)
}

func TestSuperAdminRoleIsFixed(t *testing.T) {
	f := newUserFixture()
	id := f.seed(t, superAdmin, models.RoleAdmin)

	_, err := f.svc.UpdateUserRole(context.Background(), id, models.RoleUser, superAdmin)
	assert.ErrorIs(t, err, apperrors.ErrProtected)
	assert.Equal(t, models.RoleAdmin, f.profiles.rows[id].Role)
}
