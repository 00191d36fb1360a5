package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/pmoura/scrumboard-api/internal/constants"
	"github.com/pmoura/scrumboard-api/internal/dto"
	apierrors "github.com/pmoura/scrumboard-api/internal/errors"
	"github.com/pmoura/scrumboard-api/internal/middleware"
	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/pmoura/scrumboard-api/internal/services"
	"github.com/pmoura/scrumboard-api/internal/utils"
)

// TaskHandler coordinates task, subtask, comment and attachment HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns a filtered, paginated task list over visible projects.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	pagination := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		UserID:      user.ID,
		SearchQuery: c.Query("search"),
		Page:        pagination.Page,
		PageSize:    pagination.PageSize,
	}

	var parseErr bool
	input.ProjectID, parseErr = parseOptionalID(c, "projectId")
	if parseErr {
		return
	}
	input.TypeID, parseErr = parseOptionalID(c, "typeId")
	if parseErr {
		return
	}

	switch c.Query("sprintId") {
	case "":
	case "backlog":
		input.Backlog = true
	default:
		input.SprintID, parseErr = parseOptionalID(c, "sprintId")
		if parseErr {
			return
		}
	}

	switch c.Query("assigneeId") {
	case "":
	case "unassigned":
		input.Unassigned = true
	default:
		input.AssigneeID, parseErr = parseOptionalID(c, "assigneeId")
		if parseErr {
			return
		}
	}

	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		input.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.TaskPriority(raw)
		input.Priority = &priority
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToTaskListResponse(tasks, pagination.Page, pagination.PageSize, total))
}

// parseOptionalID reads an optional numeric query parameter. The second
// return is true when the parameter was present but malformed, in which case
// the request has already been rejected.
func parseOptionalID(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name+" parameter")
		return nil, true
	}
	return &id, false
}

// GetTask returns one task with its children.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task in a project the acting user belongs to.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		StoryPoints *int                `json:"story_points"`
		DueDate     *time.Time          `json:"due_date"`
		ProjectID   uint64              `json:"project_id" binding:"required"`
		SprintID    *uint64             `json:"sprint_id"`
		AssigneeID  *uint64             `json:"assignee_id"`
		TypeID      *uint64             `json:"type_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StoryPoints: req.StoryPoints,
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
		SprintID:    req.SprintID,
		AssigneeID:  req.AssigneeID,
		TypeID:      req.TypeID,
		ActorID:     user.ID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies partial changes to a task. Nullable references are
// cleared by sending the JSON literal null for the field.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string              `json:"title"`
		Description *string              `json:"description"`
		Status      *models.TaskStatus   `json:"status"`
		Priority    *models.TaskPriority `json:"priority"`
		StoryPoints *int                 `json:"story_points"`
		DueDate     *time.Time           `json:"due_date"`
		SprintID    *uint64              `json:"sprint_id"`
		AssigneeID  *uint64              `json:"assignee_id"`
		TypeID      *uint64              `json:"type_id"`
	}

	var raw map[string]interface{}
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	var req UpdateTaskRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		StoryPoints: req.StoryPoints,
		DueDate:     req.DueDate,
		SprintID:    req.SprintID,
		AssigneeID:  req.AssigneeID,
		TypeID:      req.TypeID,
	}
	input.ClearDueDate = fieldIsNull(raw, "due_date")
	input.ClearSprint = fieldIsNull(raw, "sprint_id")
	input.ClearAssignee = fieldIsNull(raw, "assignee_id")
	input.ClearType = fieldIsNull(raw, "type_id")

	task, err := h.taskService.UpdateTask(id, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToTaskDTO(*task))
}

// fieldIsNull reports whether the key was sent with an explicit null value
func fieldIsNull(raw map[string]interface{}, key string) bool {
	value, present := raw[key]
	return present && value == nil
}

// DeleteTask removes a task and its children.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(id); err != nil {
		respondTaskError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Task deleted successfully")
}

// BulkUpdateStatus moves several tasks to the same status at once.
func (h *TaskHandler) BulkUpdateStatus(c *gin.Context) {
	type BulkUpdateRequest struct {
		TaskIDs []uint64          `json:"task_ids" binding:"required"`
		Status  models.TaskStatus `json:"status" binding:"required"`
	}

	var req BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.taskService.BulkUpdateStatus(req.TaskIDs, req.Status); err != nil {
		respondTaskError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Tasks updated successfully")
}

// CreateSubtask adds a subtask to a task.
func (h *TaskHandler) CreateSubtask(c *gin.Context) {
	type CreateSubtaskRequest struct {
		TaskID uint64 `json:"task_id" binding:"required"`
		Title  string `json:"title" binding:"required"`
	}

	var req CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	subtask, err := h.taskService.CreateSubtask(req.TaskID, req.Title)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.ToSubtaskDTO(*subtask))
}

// UpdateSubtask renames or toggles a subtask.
func (h *TaskHandler) UpdateSubtask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateSubtaskRequest struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}

	var req UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	subtask, err := h.taskService.UpdateSubtask(id, services.UpdateSubtaskInput{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToSubtaskDTO(*subtask))
}

// DeleteSubtask removes a subtask.
func (h *TaskHandler) DeleteSubtask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteSubtask(id); err != nil {
		respondTaskError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Subtask deleted successfully")
}

// ListComments returns a task's comments, newest first.
func (h *TaskHandler) ListComments(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	comments, err := h.taskService.ListComments(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	commentDTOs := make([]dto.CommentDTO, len(comments))
	for i, comment := range comments {
		commentDTOs[i] = dto.ToCommentDTO(comment)
	}
	respond(c, http.StatusOK, commentDTOs)
}

// CreateComment adds a comment authored by the acting user.
func (h *TaskHandler) CreateComment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateCommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.taskService.CreateComment(taskID, user.ID, req.Content)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.ToCommentDTO(*comment))
}

// UpdateComment edits a comment. Only the author or a users:update holder may.
func (h *TaskHandler) UpdateComment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateCommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.taskService.UpdateComment(id, user.ID, req.Content, isModerator(user))
	if err != nil {
		respondTaskError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.ToCommentDTO(*comment))
}

// DeleteComment removes a comment. Only the author or a users:update holder may.
func (h *TaskHandler) DeleteComment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteComment(id, user.ID, isModerator(user)); err != nil {
		respondTaskError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Comment deleted successfully")
}

func isModerator(user *models.User) bool {
	return user.Role.Permissions.Contains(constants.PermUsersUpdate)
}

// CreateAttachment records an uploaded file against a task.
func (h *TaskHandler) CreateAttachment(c *gin.Context) {
	type CreateAttachmentRequest struct {
		TaskID   uint64 `json:"task_id" binding:"required"`
		FileName string `json:"file_name" binding:"required"`
		URL      string `json:"url" binding:"required"`
		FileType string `json:"file_type"`
	}

	var req CreateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	attachment, err := h.taskService.CreateAttachment(req.TaskID, req.FileName, req.URL, req.FileType)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.ToAttachmentDTO(*attachment))
}

// DeleteAttachment removes an attachment record.
func (h *TaskHandler) DeleteAttachment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteAttachment(id); err != nil {
		respondTaskError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Attachment deleted successfully")
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrSubtaskNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrAttachmentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrNoTaskIDsProvided):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAssigneeNotMember),
		errors.Is(err, services.ErrNotProjectMember),
		errors.Is(err, services.ErrNotCommentAuthor):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
