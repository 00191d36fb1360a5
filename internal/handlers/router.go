package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pmoura/scrumboard-api/internal/cache"
	"github.com/pmoura/scrumboard-api/internal/constants"
	"github.com/pmoura/scrumboard-api/internal/logging"
	"github.com/pmoura/scrumboard-api/internal/middleware"
	"github.com/pmoura/scrumboard-api/internal/repository"
	"github.com/pmoura/scrumboard-api/internal/services"
	"github.com/pmoura/scrumboard-api/internal/token"
	"go.uber.org/zap"
)

// Deps carries the constructed services and infrastructure for the router.
type Deps struct {
	Tokens      *token.Manager
	UserRepo    repository.UserRepository
	Auth        *services.AuthService
	Users       *services.UserService
	Roles       *services.RoleService
	Projects    *services.ProjectService
	Sprints     *services.SprintService
	Tasks       *services.TaskService
	TaskTypes   *services.TaskTypeService
	Reports     *services.ReportService
	ReportCache *cache.Cache
	Logger      *zap.Logger
}

// NewRouter builds the gin engine with the full route table.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger(deps.Logger))

	authHandler := NewAuthHandler(deps.Auth, deps.Tokens)
	userHandler := NewUserHandler(deps.Users)
	roleHandler := NewRoleHandler(deps.Roles)
	projectHandler := NewProjectHandler(deps.Projects)
	sprintHandler := NewSprintHandler(deps.Sprints)
	taskHandler := NewTaskHandler(deps.Tasks)
	taskTypeHandler := NewTaskTypeHandler(deps.TaskTypes)
	reportHandler := NewReportHandler(deps.Reports, deps.Projects, deps.ReportCache, deps.Logger)

	requireAuth := middleware.RequireAuth(deps.Tokens, deps.UserRepo)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", middleware.RequirePermission(constants.PermUsersRead), userHandler.ListUsers)
			users.GET("/:id", middleware.RequirePermission(constants.PermUsersRead), userHandler.GetUser)
			users.POST("", middleware.RequirePermission(constants.PermUsersCreate), userHandler.CreateUser)
			users.PUT("/:id", middleware.RequirePermission(constants.PermUsersUpdate), userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequirePermission(constants.PermUsersDelete), userHandler.DeleteUser)
		}

		roles := api.Group("/roles")
		roles.Use(requireAuth)
		{
			roles.GET("", roleHandler.ListRoles)
			roles.POST("", middleware.RequirePermission(constants.PermRolesCreate), roleHandler.CreateRole)
			roles.PUT("/:id", middleware.RequirePermission(constants.PermRolesUpdate), roleHandler.UpdateRole)
			roles.DELETE("/:id", middleware.RequirePermission(constants.PermRolesDelete), roleHandler.DeleteRole)
		}

		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.POST("", middleware.RequirePermission(constants.PermProjectsCreate), projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.POST("/:id/members", projectHandler.AddMember)
			projects.PUT("/:id/members/:userId", projectHandler.UpdateMemberRole)
			projects.DELETE("/:id/members/:userId", projectHandler.RemoveMember)
		}

		sprints := api.Group("/sprints")
		sprints.Use(requireAuth)
		{
			sprints.GET("", sprintHandler.ListSprints)
			sprints.POST("", sprintHandler.CreateSprint)
			sprints.GET("/:id", sprintHandler.GetSprint)
			sprints.PUT("/:id", sprintHandler.UpdateSprint)
			sprints.DELETE("/:id", sprintHandler.DeleteSprint)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.PATCH("/bulk-update", taskHandler.BulkUpdateStatus)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.GET("/:id/comments", taskHandler.ListComments)
			tasks.POST("/:id/comments", taskHandler.CreateComment)
		}

		subtasks := api.Group("/subtasks")
		subtasks.Use(requireAuth)
		{
			subtasks.POST("", taskHandler.CreateSubtask)
			subtasks.PUT("/:id", taskHandler.UpdateSubtask)
			subtasks.DELETE("/:id", taskHandler.DeleteSubtask)
		}

		comments := api.Group("/comments")
		comments.Use(requireAuth)
		{
			comments.PUT("/:id", taskHandler.UpdateComment)
			comments.DELETE("/:id", taskHandler.DeleteComment)
		}

		attachments := api.Group("/attachments")
		attachments.Use(requireAuth)
		{
			attachments.POST("", taskHandler.CreateAttachment)
			attachments.DELETE("/:id", taskHandler.DeleteAttachment)
		}

		taskTypes := api.Group("/task-types")
		taskTypes.Use(requireAuth)
		{
			taskTypes.GET("", taskTypeHandler.ListTaskTypes)
			taskTypes.POST("", middleware.RequirePermission(constants.PermAdminManage), taskTypeHandler.CreateTaskType)
			taskTypes.PUT("/:id", middleware.RequirePermission(constants.PermAdminManage), taskTypeHandler.UpdateTaskType)
			taskTypes.DELETE("/:id", middleware.RequirePermission(constants.PermAdminManage), taskTypeHandler.DeleteTaskType)
		}

		reports := api.Group("/reports")
		reports.Use(requireAuth)
		{
			reports.GET("/overview", reportHandler.Overview)
			reports.GET("/sprints", reportHandler.Sprints)
			reports.GET("/team", reportHandler.Team)
			reports.GET("/projects", reportHandler.Projects)
		}
	}

	return r
}
