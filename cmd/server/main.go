package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/pmoura/scrumboard-api/internal/cache"
	"github.com/pmoura/scrumboard-api/internal/config"
	"github.com/pmoura/scrumboard-api/internal/database"
	"github.com/pmoura/scrumboard-api/internal/handlers"
	"github.com/pmoura/scrumboard-api/internal/logging"
	"github.com/pmoura/scrumboard-api/internal/repository"
	"github.com/pmoura/scrumboard-api/internal/services"
	"github.com/pmoura/scrumboard-api/internal/token"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	logger, err := logging.New(cfg.GinMode)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := database.Connect(cfg); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.SeedRoles(database.GetDB()); err != nil {
		logger.Fatal("failed to seed roles", zap.Error(err))
	}

	// Redis is optional; without it the report cache degrades to a no-op.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	reportCache := cache.New(redisClient, cfg.CacheTTL)
	defer reportCache.Close()

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	sprintRepo := repository.NewSprintRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	taskTypeRepo := repository.NewTaskTypeRepository(db)
	reportRepo := repository.NewReportRepository(db)

	projectService := services.NewProjectService(projectRepo, userRepo, roleRepo)

	router := handlers.NewRouter(handlers.Deps{
		Tokens:      token.NewManager(cfg.JWTSecret),
		UserRepo:    userRepo,
		Auth:        services.NewAuthService(userRepo, roleRepo),
		Users:       services.NewUserService(userRepo, roleRepo),
		Roles:       services.NewRoleService(roleRepo),
		Projects:    projectService,
		Sprints:     services.NewSprintService(sprintRepo, projectRepo, projectService),
		Tasks:       services.NewTaskService(taskRepo, projectRepo, projectService),
		TaskTypes:   services.NewTaskTypeService(taskTypeRepo),
		Reports:     services.NewReportService(reportRepo, projectRepo),
		ReportCache: reportCache,
		Logger:      logger,
	})

	logger.Info("server starting", zap.String("addr", cfg.ListenAddr))
	if err := router.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
