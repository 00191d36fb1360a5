package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pmoura/scrumboard-api/internal/cache"
	"github.com/pmoura/scrumboard-api/internal/dto"
	apierrors "github.com/pmoura/scrumboard-api/internal/errors"
	"github.com/pmoura/scrumboard-api/internal/middleware"
	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/pmoura/scrumboard-api/internal/services"
	"go.uber.org/zap"
)

// ReportHandler serves the dashboard reports. Each endpoint runs in
// single-project mode when projectId is given and cross-project mode
// otherwise. Cross-project responses are cached per user for a short TTL
// since they fan out over every visible project.
type ReportHandler struct {
	reportService  *services.ReportService
	projectService *services.ProjectService
	cache          *cache.Cache
	logger         *zap.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *services.ReportService, projectService *services.ProjectService, reportCache *cache.Cache, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService:  reportService,
		projectService: projectService,
		cache:          reportCache,
		logger:         logger,
	}
}

// Overview serves the project summary or the cross-project overview.
func (h *ReportHandler) Overview(c *gin.Context) {
	user, projectID, ok := h.resolveMode(c)
	if !ok {
		return
	}

	if projectID != 0 {
		summary, err := h.reportService.ProjectSummary(projectID)
		if err != nil {
			respondReportError(c, err)
			return
		}
		respond(c, http.StatusOK, summary)
		return
	}

	key := fmt.Sprintf("reports:overview:%d", user.ID)
	var cached dto.OverviewReport
	if h.cacheGet(c, key, &cached) {
		respond(c, http.StatusOK, cached)
		return
	}

	report, err := h.reportService.AggregatedOverview(user.ID)
	if err != nil {
		respondReportError(c, err)
		return
	}
	h.cacheSet(c, key, report)
	respond(c, http.StatusOK, report)
}

// Sprints serves the per-project sprint progress or the cross-project
// sprint report.
func (h *ReportHandler) Sprints(c *gin.Context) {
	user, projectID, ok := h.resolveMode(c)
	if !ok {
		return
	}

	if projectID != 0 {
		rows, err := h.reportService.SprintProgress(projectID)
		if err != nil {
			respondReportError(c, err)
			return
		}
		respond(c, http.StatusOK, rows)
		return
	}

	key := fmt.Sprintf("reports:sprints:%d", user.ID)
	var cached dto.SprintsReport
	if h.cacheGet(c, key, &cached) {
		respond(c, http.StatusOK, cached)
		return
	}

	report, err := h.reportService.AggregatedSprints(user.ID)
	if err != nil {
		respondReportError(c, err)
		return
	}
	h.cacheSet(c, key, report)
	respond(c, http.StatusOK, report)
}

// Team serves the per-project assignee performance or the cross-project team
// report.
func (h *ReportHandler) Team(c *gin.Context) {
	user, projectID, ok := h.resolveMode(c)
	if !ok {
		return
	}

	if projectID != 0 {
		rows, err := h.reportService.UserPerformance(projectID)
		if err != nil {
			respondReportError(c, err)
			return
		}
		respond(c, http.StatusOK, rows)
		return
	}

	key := fmt.Sprintf("reports:team:%d", user.ID)
	var cached dto.TeamReport
	if h.cacheGet(c, key, &cached) {
		respond(c, http.StatusOK, cached)
		return
	}

	report, err := h.reportService.AggregatedTeamPerformance(user.ID)
	if err != nil {
		respondReportError(c, err)
		return
	}
	h.cacheSet(c, key, report)
	respond(c, http.StatusOK, report)
}

// Projects serves summaries for every project the user can see.
func (h *ReportHandler) Projects(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	summaries, err := h.reportService.VisibleProjectSummaries(user.ID)
	if err != nil {
		respondReportError(c, err)
		return
	}
	respond(c, http.StatusOK, summaries)
}

// resolveMode reads the acting user and the optional projectId parameter.
// Single-project mode additionally requires the user to see that project;
// an invisible project is reported as not found.
func (h *ReportHandler) resolveMode(c *gin.Context) (*models.User, uint64, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return nil, 0, false
	}

	raw := c.Query("projectId")
	if raw == "" {
		return user, 0, true
	}

	projectID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || projectID == 0 {
		apierrors.BadRequest(c, "Invalid projectId parameter")
		return nil, 0, false
	}

	visible, err := h.projectService.IsMemberOrOwner(projectID, user.ID)
	if err != nil {
		respondReportError(c, err)
		return nil, 0, false
	}
	if !visible {
		apierrors.NotFound(c, services.ErrProjectNotFound.Error())
		return nil, 0, false
	}
	return user, projectID, true
}

// cacheGet reports whether the key was served from cache. Cache failures are
// logged and treated as misses.
func (h *ReportHandler) cacheGet(c *gin.Context, key string, dest interface{}) bool {
	err := h.cache.Get(c.Request.Context(), key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, cache.ErrMiss) {
		h.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (h *ReportHandler) cacheSet(c *gin.Context, key string, value interface{}) {
	if err := h.cache.Set(c.Request.Context(), key, value); err != nil {
		h.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
