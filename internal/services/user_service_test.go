package services

import (
	"testing"

	"github.com/pmoura/scrumboard-api/internal/constants"
	"github.com/pmoura/scrumboard-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) *UserService {
	return NewUserService(repository.NewUserRepository(db), repository.NewRoleRepository(db))
}

func TestUpdateUser_RoleChangePersists(t *testing.T) {
	db := setupTestDB(t)
	auth := newAuthService(db)
	svc := newUserService(db)

	_, err := auth.Register(RegisterInput{Email: "admin@example.com", Password: "supersecret"})
	require.NoError(t, err)
	member, err := auth.Register(RegisterInput{Email: "bob@example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, constants.RoleMember, member.Role.Name)

	adminRole, err := repository.NewRoleRepository(db).FindByName(constants.RoleAdmin)
	require.NoError(t, err)

	updated, err := svc.UpdateUser(member.ID, UpdateUserInput{RoleID: &adminRole.ID})
	require.NoError(t, err)
	require.Equal(t, adminRole.ID, updated.RoleID)
	require.Equal(t, constants.RoleAdmin, updated.Role.Name)

	// A fresh read must see the new role too.
	reloaded, err := svc.GetUser(member.ID)
	require.NoError(t, err)
	require.Equal(t, adminRole.ID, reloaded.RoleID)
	require.Equal(t, constants.RoleAdmin, reloaded.Role.Name)
}

func TestUpdateUser_RejectsProjectScopedRole(t *testing.T) {
	db := setupTestDB(t)
	auth := newAuthService(db)
	svc := newUserService(db)

	user, err := auth.Register(RegisterInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	viewerRole, err := repository.NewRoleRepository(db).FindByName(constants.RoleViewer)
	require.NoError(t, err)

	_, err = svc.UpdateUser(user.ID, UpdateUserInput{RoleID: &viewerRole.ID})
	require.ErrorIs(t, err, ErrRoleNotSystemScoped)
}
