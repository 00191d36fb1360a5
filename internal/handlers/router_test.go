package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pmoura/scrumboard-api/internal/cache"
	"github.com/pmoura/scrumboard-api/internal/database"
	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/pmoura/scrumboard-api/internal/repository"
	"github.com/pmoura/scrumboard-api/internal/services"
	"github.com/pmoura/scrumboard-api/internal/token"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type serverTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupServerTestEnv(t *testing.T) serverTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	sprintRepo := repository.NewSprintRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	taskTypeRepo := repository.NewTaskTypeRepository(db)
	reportRepo := repository.NewReportRepository(db)

	projectService := services.NewProjectService(projectRepo, userRepo, roleRepo)

	router := NewRouter(Deps{
		Tokens:      token.NewManager("test-secret"),
		UserRepo:    userRepo,
		Auth:        services.NewAuthService(userRepo, roleRepo),
		Users:       services.NewUserService(userRepo, roleRepo),
		Roles:       services.NewRoleService(roleRepo),
		Projects:    projectService,
		Sprints:     services.NewSprintService(sprintRepo, projectRepo, projectService),
		Tasks:       services.NewTaskService(taskRepo, projectRepo, projectService),
		TaskTypes:   services.NewTaskTypeService(taskTypeRepo),
		Reports:     services.NewReportService(reportRepo, projectRepo),
		ReportCache: cache.New(nil, time.Minute),
		Logger:      zap.NewNop(),
	})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return serverTestEnv{db: db, router: router}
}

func (env serverTestEnv) do(t *testing.T, method, path, bearer string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// register creates a user through the API and returns their bearer token.
func (env serverTestEnv) register(t *testing.T, name, email string) string {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.True(t, response.Success)
	require.NotEmpty(t, response.Data.Token)
	return response.Data.Token
}
