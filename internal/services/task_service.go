package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/pmoura/scrumboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrTitleRequired      = errors.New("title is required")
	ErrAssigneeNotMember  = errors.New("assignee is not a member of the project")
	ErrSubtaskNotFound    = errors.New("subtask not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrNotCommentAuthor   = errors.New("only the comment author can perform this action")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrNoTaskIDsProvided  = errors.New("at least one task ID is required")
)

// TaskService handles task business logic, including the task's child
// records (subtasks, comments, attachments).
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	projects    *ProjectService
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, projects *ProjectService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		projects:    projects,
	}
}

// ListTasksInput represents filters for listing tasks.
type ListTasksInput struct {
	UserID      uint64
	SearchQuery string
	ProjectID   *uint64
	SprintID    *uint64
	Backlog     bool
	AssigneeID  *uint64
	Unassigned  bool
	TypeID      *uint64
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	Page        int
	PageSize    int
}

// ListTasks returns tasks in the user's visible projects matching the filters.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	projectIDs, err := s.projectRepo.VisibleProjectIDs(input.UserID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resolve visible projects: %w", err)
	}
	if len(projectIDs) == 0 {
		return []models.Task{}, 0, nil
	}

	filter := repository.TaskFilter{
		ProjectIDs:  projectIDs,
		SearchQuery: input.SearchQuery,
		ProjectID:   input.ProjectID,
		SprintID:    input.SprintID,
		Backlog:     input.Backlog,
		AssigneeID:  input.AssigneeID,
		Unassigned:  input.Unassigned,
		TypeID:      input.TypeID,
		Status:      input.Status,
		Priority:    input.Priority,
		Page:        input.Page,
		PageSize:    input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	StoryPoints *int
	DueDate     *time.Time
	ProjectID   uint64
	SprintID    *uint64
	AssigneeID  *uint64
	TypeID      *uint64
	ActorID     uint64
}

// CreateTask creates a task in a project the acting user can see. An
// assignee must hold a membership row in the project; the owner alone does
// not qualify as an assignee.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	ok, err := s.projects.IsMemberOrOwner(input.ProjectID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotProjectMember
	}

	if input.AssigneeID != nil {
		if err := s.requireMembership(input.ProjectID, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		StoryPoints: input.StoryPoints,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		SprintID:    input.SprintID,
		AssigneeID:  input.AssigneeID,
		TypeID:      input.TypeID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTask(task.ID)
}

// GetTask returns a task with its relations and children.
func (s *TaskService) GetTask(id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput represents input for updating a task.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	StoryPoints   *int
	DueDate       *time.Time
	ClearDueDate  bool
	SprintID      *uint64
	ClearSprint   bool
	AssigneeID    *uint64
	ClearAssignee bool
	TypeID        *uint64
	ClearType     bool
}

// UpdateTask applies the given changes. Assigning enforces the membership
// rule against the task's project.
func (s *TaskService) UpdateTask(id uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.StoryPoints != nil {
		task.StoryPoints = input.StoryPoints
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearSprint {
		task.SprintID = nil
	} else if input.SprintID != nil {
		task.SprintID = input.SprintID
	}
	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		if err := s.requireMembership(task.ProjectID, *input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = input.AssigneeID
	}
	if input.ClearType {
		task.TypeID = nil
	} else if input.TypeID != nil {
		task.TypeID = input.TypeID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return s.GetTask(id)
}

// DeleteTask removes a task together with its subtasks, comments and
// attachments.
func (s *TaskService) DeleteTask(id uint64) error {
	if _, err := s.taskRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// BulkUpdateStatus sets the status of every given task.
func (s *TaskService) BulkUpdateStatus(taskIDs []uint64, status models.TaskStatus) error {
	if len(taskIDs) == 0 {
		return ErrNoTaskIDsProvided
	}
	if err := s.taskRepo.UpdateStatusBulk(taskIDs, status); err != nil {
		return fmt.Errorf("failed to bulk update tasks: %w", err)
	}
	return nil
}

func (s *TaskService) requireMembership(projectID, userID uint64) error {
	if _, err := s.projectRepo.FindMember(projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotMember
		}
		return fmt.Errorf("failed to verify membership: %w", err)
	}
	return nil
}

// CreateSubtask adds a subtask to an existing task.
func (s *TaskService) CreateSubtask(taskID uint64, title string) (*models.Subtask, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrTitleRequired
	}
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	subtask := &models.Subtask{Title: title, TaskID: taskID}
	if err := s.taskRepo.CreateSubtask(subtask); err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}
	return subtask, nil
}

// UpdateSubtaskInput represents fields that can change on a subtask.
type UpdateSubtaskInput struct {
	Title     *string
	Completed *bool
}

// UpdateSubtask applies the given changes.
func (s *TaskService) UpdateSubtask(id uint64, input UpdateSubtaskInput) (*models.Subtask, error) {
	subtask, err := s.taskRepo.FindSubtaskByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("failed to find subtask: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		subtask.Title = *input.Title
	}
	if input.Completed != nil {
		subtask.Completed = *input.Completed
	}

	if err := s.taskRepo.UpdateSubtask(subtask); err != nil {
		return nil, fmt.Errorf("failed to update subtask: %w", err)
	}
	return subtask, nil
}

// DeleteSubtask removes a subtask.
func (s *TaskService) DeleteSubtask(id uint64) error {
	if _, err := s.taskRepo.FindSubtaskByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubtaskNotFound
		}
		return fmt.Errorf("failed to find subtask: %w", err)
	}
	if err := s.taskRepo.DeleteSubtask(id); err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
	}
	return nil
}

// ListComments returns a task's comments, oldest first.
func (s *TaskService) ListComments(taskID uint64) ([]models.Comment, error) {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	comments, err := s.taskRepo.ListCommentsByTask(taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// CreateComment adds a comment authored by the acting user.
func (s *TaskService) CreateComment(taskID, authorID uint64, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("content is required")
	}
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	comment := &models.Comment{Content: content, TaskID: taskID, AuthorID: authorID}
	if err := s.taskRepo.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return s.taskRepo.FindCommentByID(comment.ID)
}

// UpdateComment edits a comment. Only the author may edit, unless the actor
// moderates (holds the users:update permission).
func (s *TaskService) UpdateComment(id, actorID uint64, content string, moderator bool) (*models.Comment, error) {
	comment, err := s.taskRepo.FindCommentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	if comment.AuthorID != actorID && !moderator {
		return nil, ErrNotCommentAuthor
	}

	comment.Content = content
	if err := s.taskRepo.UpdateComment(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

// DeleteComment removes a comment under the same authorship rule as UpdateComment.
func (s *TaskService) DeleteComment(id, actorID uint64, moderator bool) error {
	comment, err := s.taskRepo.FindCommentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to find comment: %w", err)
	}

	if comment.AuthorID != actorID && !moderator {
		return ErrNotCommentAuthor
	}

	if err := s.taskRepo.DeleteComment(id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// CreateAttachment records an attachment on a task.
func (s *TaskService) CreateAttachment(taskID uint64, fileName, url, fileType string) (*models.Attachment, error) {
	if strings.TrimSpace(fileName) == "" || strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("file name and url are required")
	}
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	attachment := &models.Attachment{
		FileName: fileName,
		URL:      url,
		FileType: fileType,
		TaskID:   taskID,
	}
	if err := s.taskRepo.CreateAttachment(attachment); err != nil {
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}
	return attachment, nil
}

// DeleteAttachment removes an attachment.
func (s *TaskService) DeleteAttachment(id uint64) error {
	if _, err := s.taskRepo.FindAttachmentByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return fmt.Errorf("failed to find attachment: %w", err)
	}
	if err := s.taskRepo.DeleteAttachment(id); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	return nil
}
