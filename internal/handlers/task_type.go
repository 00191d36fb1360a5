package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pmoura/scrumboard-api/internal/dto"
	apierrors "github.com/pmoura/scrumboard-api/internal/errors"
	"github.com/pmoura/scrumboard-api/internal/services"
)

// TaskTypeHandler coordinates task type HTTP handlers.
type TaskTypeHandler struct {
	taskTypeService *services.TaskTypeService
}

// NewTaskTypeHandler creates a new TaskTypeHandler.
func NewTaskTypeHandler(taskTypeService *services.TaskTypeService) *TaskTypeHandler {
	return &TaskTypeHandler{taskTypeService: taskTypeService}
}

// ListTaskTypes returns all task types.
func (h *TaskTypeHandler) ListTaskTypes(c *gin.Context) {
	taskTypes, err := h.taskTypeService.ListTaskTypes()
	if err != nil {
		respondTaskTypeError(c, err)
		return
	}

	typeDTOs := make([]dto.TaskTypeDTO, len(taskTypes))
	for i, taskType := range taskTypes {
		typeDTOs[i] = dto.ToTaskTypeDTO(taskType)
	}
	respond(c, http.StatusOK, typeDTOs)
}

// CreateTaskType creates a task type.
func (h *TaskTypeHandler) CreateTaskType(c *gin.Context) {
	type CreateTaskTypeRequest struct {
		Name  string `json:"name" binding:"required"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}

	var req CreateTaskTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	taskType, err := h.taskTypeService.CreateTaskType(services.CreateTaskTypeInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		respondTaskTypeError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.ToTaskTypeDTO(*taskType))
}

// UpdateTaskType applies partial changes to a task type.
func (h *TaskTypeHandler) UpdateTaskType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTaskTypeRequest struct {
		Name  *string `json:"name"`
		Icon  *string `json:"icon"`
		Color *string `json:"color"`
	}

	var req UpdateTaskTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	taskType, err := h.taskTypeService.UpdateTaskType(id, services.UpdateTaskTypeInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		respondTaskTypeError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToTaskTypeDTO(*taskType))
}

// DeleteTaskType removes a task type, detaching it from tasks first.
func (h *TaskTypeHandler) DeleteTaskType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskTypeService.DeleteTaskType(id); err != nil {
		respondTaskTypeError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Task type deleted successfully")
}

func respondTaskTypeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskTypeNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskTypeNameMissing):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
