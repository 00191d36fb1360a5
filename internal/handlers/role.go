package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pmoura/scrumboard-api/internal/dto"
	apierrors "github.com/pmoura/scrumboard-api/internal/errors"
	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/pmoura/scrumboard-api/internal/services"
)

// RoleHandler coordinates role management HTTP handlers.
type RoleHandler struct {
	roleService *services.RoleService
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// ListRoles returns all roles.
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles()
	if err != nil {
		respondRoleError(c, err)
		return
	}

	roleDTOs := make([]dto.RoleDTO, len(roles))
	for i, role := range roles {
		roleDTOs[i] = dto.ToRoleDTO(role)
	}
	respond(c, http.StatusOK, roleDTOs)
}

// CreateRole creates a role.
func (h *RoleHandler) CreateRole(c *gin.Context) {
	type CreateRoleRequest struct {
		Name        string           `json:"name" binding:"required"`
		Description string           `json:"description"`
		Scope       models.RoleScope `json:"scope"`
		Permissions []string         `json:"permissions"`
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.roleService.CreateRole(services.CreateRoleInput{
		Name:        req.Name,
		Description: req.Description,
		Scope:       req.Scope,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondRoleError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.ToRoleDTO(*role))
}

// UpdateRole applies partial changes to a role.
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateRoleRequest struct {
		Name        *string   `json:"name"`
		Description *string   `json:"description"`
		Permissions *[]string `json:"permissions"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, err := h.roleService.UpdateRole(id, services.UpdateRoleInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		respondRoleError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToRoleDTO(*role))
}

// DeleteRole removes a role.
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.roleService.DeleteRole(id); err != nil {
		respondRoleError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Role deleted successfully")
}

func respondRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRoleNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrRoleNameMissing):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrRoleNameTaken):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
