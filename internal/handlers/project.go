package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pmoura/scrumboard-api/internal/constants"
	"github.com/pmoura/scrumboard-api/internal/dto"
	apierrors "github.com/pmoura/scrumboard-api/internal/errors"
	"github.com/pmoura/scrumboard-api/internal/middleware"
	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/pmoura/scrumboard-api/internal/services"
)

// ProjectHandler coordinates project and membership HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// CreateProject creates a project owned by the acting user.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string               `json:"name" binding:"required"`
		Description string               `json:"description"`
		Status      models.ProjectStatus `json:"status"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		OwnerID:     user.ID,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.ToProjectDetailDTO(*project))
}

// ListProjects returns the projects the acting user owns or is a member of.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListProjects(user.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToProjectDTOs(projects))
}

// GetProject returns the full project view.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(id, user.ID)
	if err != nil {
		respondProjectError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToProjectDetailDTO(*project))
}

// UpdateProject applies partial changes. The owner always may; members need
// the project:update permission on their project role.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !h.requireProjectPermission(c, id, user.ID, constants.PermProjectUpdate) {
		return
	}

	type UpdateProjectRequest struct {
		Name        *string               `json:"name"`
		Description *string               `json:"description"`
		Status      *models.ProjectStatus `json:"status"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(id, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToProjectDetailDTO(*project))
}

// DeleteProject removes the project and everything hanging off it. Allowed
// for the owner, members whose project role carries project:delete, and
// system roles carrying projects:delete.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !user.Role.Permissions.Contains(constants.PermProjectsDelete) {
		if !h.requireProjectPermission(c, id, user.ID, constants.PermProjectDelete) {
			return
		}
	}

	if err := h.projectService.DeleteProject(id); err != nil {
		respondProjectError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Project deleted successfully")
}

// AddMember adds a user to the project with a project-scoped role.
func (h *ProjectHandler) AddMember(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if !h.requireProjectPermission(c, projectID, user.ID, constants.PermProjectManageMembers) {
		return
	}

	type AddMemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
		RoleID uint64 `json:"role_id" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.AddMember(projectID, req.UserID, req.RoleID)
	if err != nil {
		respondProjectError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.ToProjectDetailDTO(*project))
}

// UpdateMemberRole changes a member's project-scoped role.
func (h *ProjectHandler) UpdateMemberRole(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if !h.requireProjectPermission(c, projectID, user.ID, constants.PermProjectManageMembers) {
		return
	}

	type UpdateMemberRequest struct {
		RoleID uint64 `json:"role_id" binding:"required"`
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateMemberRole(projectID, memberID, req.RoleID)
	if err != nil {
		respondProjectError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToProjectDetailDTO(*project))
}

// RemoveMember removes a member from the project.
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if !h.requireProjectPermission(c, projectID, user.ID, constants.PermProjectManageMembers) {
		return
	}

	project, err := h.projectService.RemoveMember(projectID, memberID)
	if err != nil {
		respondProjectError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToProjectDetailDTO(*project))
}

func (h *ProjectHandler) requireProjectPermission(c *gin.Context, projectID, userID uint64, permission string) bool {
	allowed, err := h.projectService.HasProjectPermission(projectID, userID, permission)
	if err != nil {
		respondProjectError(c, err)
		return false
	}
	if !allowed {
		apierrors.Forbidden(c, "Insufficient permissions")
		return false
	}
	return true
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrRoleNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidProjectName),
		errors.Is(err, services.ErrRoleNotProjectScoped):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrCannotRemoveOwner):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
