package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pmoura/scrumboard-api/internal/constants"
	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/pmoura/scrumboard-api/internal/repository"
	"github.com/pmoura/scrumboard-api/internal/token"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type middlewareTestEnv struct {
	db      *gorm.DB
	manager *token.Manager
	user    *models.User
	bearer  string
}

func setupMiddlewareTestEnv(t *testing.T) middlewareTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.User{}))

	role := models.Role{
		Name:        "Reader",
		Scope:       models.RoleScopeSystem,
		Permissions: models.PermissionList{"users:read"},
	}
	require.NoError(t, db.Create(&role).Error)

	user := models.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "irrelevant",
		RoleID:       role.ID,
	}
	require.NoError(t, db.Create(&user).Error)

	manager := token.NewManager("test-secret")
	bearer, err := manager.Issue(&user)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return middlewareTestEnv{db: db, manager: manager, user: &user, bearer: bearer}
}

func (env middlewareTestEnv) router(permission string) *gin.Engine {
	r := gin.New()
	group := r.Group("/", RequireAuth(env.manager, repository.NewUserRepository(env.db)))
	if permission != "" {
		group.Use(RequirePermission(permission))
	}
	group.GET("/probe", func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return r
}

func (env middlewareTestEnv) probe(r *gin.Engine, bearer string) int {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRequireAuth(t *testing.T) {
	env := setupMiddlewareTestEnv(t)
	r := env.router("")

	require.Equal(t, http.StatusUnauthorized, env.probe(r, ""))
	require.Equal(t, http.StatusUnauthorized, env.probe(r, "garbage"))
	require.Equal(t, http.StatusOK, env.probe(r, env.bearer))
}

func TestRequireAuth_CookieFallback(t *testing.T) {
	env := setupMiddlewareTestEnv(t)
	r := env.router("")

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: constants.TokenCookieName, Value: env.bearer})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth_DeletedUser(t *testing.T) {
	env := setupMiddlewareTestEnv(t)
	require.NoError(t, env.db.Delete(&models.User{}, env.user.ID).Error)

	r := env.router("")
	require.Equal(t, http.StatusUnauthorized, env.probe(r, env.bearer))
}

func TestRequirePermission_ExactMatchOnly(t *testing.T) {
	env := setupMiddlewareTestEnv(t)

	require.Equal(t, http.StatusOK, env.probe(env.router("users:read"), env.bearer))
	require.Equal(t, http.StatusForbidden, env.probe(env.router("users:write"), env.bearer))

	// Matching is case-sensitive with no wildcards.
	require.Equal(t, http.StatusForbidden, env.probe(env.router("Users:Read"), env.bearer))
	require.Equal(t, http.StatusForbidden, env.probe(env.router("users:*"), env.bearer))
}

func TestRequirePermission_ReloadsRoleFromStore(t *testing.T) {
	env := setupMiddlewareTestEnv(t)
	r := env.router("users:read")

	require.Equal(t, http.StatusOK, env.probe(r, env.bearer))

	// Revoking the permission takes effect on the next request with the
	// same token.
	require.NoError(t, env.db.Model(&models.Role{}).
		Where("id = ?", env.user.RoleID).
		Update("permissions", models.PermissionList{}).Error)
	require.Equal(t, http.StatusForbidden, env.probe(r, env.bearer))
}
