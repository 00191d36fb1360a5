package services

import (
	"testing"

	"github.com/pmoura/scrumboard-api/internal/constants"
	"github.com/pmoura/scrumboard-api/internal/database"
	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/pmoura/scrumboard-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Sprint{},
		&models.TaskType{},
		&models.Task{},
		&models.Subtask{},
		&models.Comment{},
		&models.Attachment{},
	)
	require.NoError(t, err)
	require.NoError(t, database.SeedRoles(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(repository.NewUserRepository(db), repository.NewRoleRepository(db))
}

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, constants.RoleAdmin, user.Role.Name)
}

func TestRegister_SecondUserBecomesMember(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(RegisterInput{
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	second, err := svc.Register(RegisterInput{
		Email:    "bob@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, constants.RoleMember, second.Role.Name)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(RegisterInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Email: "alice@example.com", Password: "anothersecret"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_PasswordTooShort(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(RegisterInput{Email: "alice@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_FailsWithoutSeededRoles(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Where("1 = 1").Delete(&models.Role{}).Error)
	svc := newAuthService(db)

	_, err := svc.Register(RegisterInput{Email: "alice@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrRolesNotSeeded)
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(RegisterInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)

	user, err := svc.Login(LoginInput{Email: "alice@example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.NotEmpty(t, user.Role.Permissions)

	_, err = svc.Login(LoginInput{Email: "alice@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(LoginInput{Email: "nobody@example.com", Password: "supersecret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
