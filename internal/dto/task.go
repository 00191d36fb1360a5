package dto

import (
	"time"

	"github.com/pmoura/scrumboard-api/internal/models"
)

// SubtaskDTO represents a subtask in API responses
type SubtaskDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	TaskID    uint64    `json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentDTO represents a comment in API responses
type CommentDTO struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	TaskID    uint64    `json:"task_id"`
	AuthorID  uint64    `json:"author_id"`
	Author    *UserDTO  `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AttachmentDTO represents a file attachment in API responses
type AttachmentDTO struct {
	ID        uint64    `json:"id"`
	FileName  string    `json:"file_name"`
	URL       string    `json:"url"`
	FileType  string    `json:"file_type"`
	TaskID    uint64    `json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskTypeDTO represents a task type in API responses
type TaskTypeDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// SprintRefDTO represents a sprint reference embedded in a task
type SprintRefDTO struct {
	ID        uint64     `json:"id"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	StoryPoints *int                `json:"story_points"`
	DueDate     *time.Time          `json:"due_date"`
	ProjectID   uint64              `json:"project_id"`
	SprintID    *uint64             `json:"sprint_id"`
	AssigneeID  *uint64             `json:"assignee_id"`
	TypeID      *uint64             `json:"type_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Assignee    *UserDTO            `json:"assignee,omitempty"`
	Sprint      *SprintRefDTO       `json:"sprint,omitempty"`
	Type        *TaskTypeDTO        `json:"type,omitempty"`
	Subtasks    []SubtaskDTO        `json:"subtasks,omitempty"`
	Comments    []CommentDTO        `json:"comments,omitempty"`
	Attachments []AttachmentDTO     `json:"attachments,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// ToSubtaskDTO converts a Subtask model to SubtaskDTO
func ToSubtaskDTO(subtask models.Subtask) SubtaskDTO {
	return SubtaskDTO{
		ID:        subtask.ID,
		Title:     subtask.Title,
		Completed: subtask.Completed,
		TaskID:    subtask.TaskID,
		CreatedAt: subtask.CreatedAt,
		UpdatedAt: subtask.UpdatedAt,
	}
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	dto := CommentDTO{
		ID:        comment.ID,
		Content:   comment.Content,
		TaskID:    comment.TaskID,
		AuthorID:  comment.AuthorID,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}

	if comment.Author.ID != 0 {
		author := ToUserDTO(comment.Author)
		dto.Author = &author
	}

	return dto
}

// ToAttachmentDTO converts an Attachment model to AttachmentDTO
func ToAttachmentDTO(attachment models.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:        attachment.ID,
		FileName:  attachment.FileName,
		URL:       attachment.URL,
		FileType:  attachment.FileType,
		TaskID:    attachment.TaskID,
		CreatedAt: attachment.CreatedAt,
	}
}

// ToTaskTypeDTO converts a TaskType model to TaskTypeDTO
func ToTaskTypeDTO(taskType models.TaskType) TaskTypeDTO {
	return TaskTypeDTO{
		ID:    taskType.ID,
		Name:  taskType.Name,
		Icon:  taskType.Icon,
		Color: taskType.Color,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		StoryPoints: task.StoryPoints,
		DueDate:     task.DueDate,
		ProjectID:   task.ProjectID,
		SprintID:    task.SprintID,
		AssigneeID:  task.AssigneeID,
		TypeID:      task.TypeID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include relations when preloaded
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}
	if task.Sprint != nil && task.Sprint.ID != 0 {
		dto.Sprint = &SprintRefDTO{
			ID:        task.Sprint.ID,
			Name:      task.Sprint.Name,
			StartDate: task.Sprint.StartDate,
			EndDate:   task.Sprint.EndDate,
		}
	}
	if task.Type != nil && task.Type.ID != 0 {
		taskType := ToTaskTypeDTO(*task.Type)
		dto.Type = &taskType
	}
	if len(task.Subtasks) > 0 {
		dto.Subtasks = make([]SubtaskDTO, len(task.Subtasks))
		for i, subtask := range task.Subtasks {
			dto.Subtasks[i] = ToSubtaskDTO(subtask)
		}
	}
	if len(task.Comments) > 0 {
		dto.Comments = make([]CommentDTO, len(task.Comments))
		for i, comment := range task.Comments {
			dto.Comments[i] = ToCommentDTO(comment)
		}
	}
	if len(task.Attachments) > 0 {
		dto.Attachments = make([]AttachmentDTO, len(task.Attachments))
		for i, attachment := range task.Attachments {
			dto.Attachments[i] = ToAttachmentDTO(attachment)
		}
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
