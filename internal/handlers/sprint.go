package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pmoura/scrumboard-api/internal/dto"
	apierrors "github.com/pmoura/scrumboard-api/internal/errors"
	"github.com/pmoura/scrumboard-api/internal/middleware"
	"github.com/pmoura/scrumboard-api/internal/services"
)

// SprintHandler coordinates sprint HTTP handlers.
type SprintHandler struct {
	sprintService *services.SprintService
}

// NewSprintHandler creates a new SprintHandler.
func NewSprintHandler(sprintService *services.SprintService) *SprintHandler {
	return &SprintHandler{sprintService: sprintService}
}

// ListSprints returns the sprints of one project when projectId is given,
// otherwise the sprints of every project the acting user can see.
func (h *SprintHandler) ListSprints(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if raw := c.Query("projectId"); raw != "" {
		projectID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || projectID == 0 {
			apierrors.BadRequest(c, "Invalid projectId parameter")
			return
		}
		sprints, err := h.sprintService.ListSprintsByProject(projectID)
		if err != nil {
			respondSprintError(c, err)
			return
		}
		respond(c, http.StatusOK, dto.ToSprintDTOs(sprints))
		return
	}

	sprints, err := h.sprintService.ListSprintsForUser(user.ID)
	if err != nil {
		respondSprintError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToSprintDTOs(sprints))
}

// GetSprint returns one sprint with its tasks.
func (h *SprintHandler) GetSprint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sprint, err := h.sprintService.GetSprint(id)
	if err != nil {
		respondSprintError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToSprintDTO(*sprint))
}

// CreateSprint creates a sprint in a project the acting user belongs to.
func (h *SprintHandler) CreateSprint(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateSprintRequest struct {
		Name      string     `json:"name" binding:"required"`
		StartDate *time.Time `json:"start_date"`
		EndDate   *time.Time `json:"end_date"`
		ProjectID uint64     `json:"project_id" binding:"required"`
	}

	var req CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sprint, err := h.sprintService.CreateSprint(services.CreateSprintInput{
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		ProjectID: req.ProjectID,
		ActorID:   user.ID,
	})
	if err != nil {
		respondSprintError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.ToSprintDTO(*sprint))
}

// UpdateSprint applies partial changes to a sprint.
func (h *SprintHandler) UpdateSprint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateSprintRequest struct {
		Name                 *string    `json:"name"`
		StartDate            *time.Time `json:"start_date"`
		EndDate              *time.Time `json:"end_date"`
		StoryPointsCommitted *int       `json:"story_points_committed"`
		StoryPointsCompleted *int       `json:"story_points_completed"`
	}

	var req UpdateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	sprint, err := h.sprintService.UpdateSprint(id, services.UpdateSprintInput{
		Name:                 req.Name,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		StoryPointsCommitted: req.StoryPointsCommitted,
		StoryPointsCompleted: req.StoryPointsCompleted,
	})
	if err != nil {
		respondSprintError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToSprintDTO(*sprint))
}

// DeleteSprint removes a sprint, moving its tasks back to the backlog.
func (h *SprintHandler) DeleteSprint(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.sprintService.DeleteSprint(id); err != nil {
		respondSprintError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Sprint deleted successfully")
}

func respondSprintError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSprintNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidSprintName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotProjectMember):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
