package repository

import (
	"github.com/pmoura/scrumboard-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error

	// FindByID finds a user by ID with its system role preloaded
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email with its system role preloaded
	FindByEmail(email string) (*models.User, error)

	// List returns all users with roles and project memberships preloaded
	List() ([]models.User, error)

	Update(user *models.User) error
	Delete(id uint64) error

	// CountByRoleID counts users holding the given system role
	CountByRoleID(roleID uint64) (int64, error)
}

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	Create(role *models.Role) error
	FindByID(id uint64) (*models.Role, error)
	FindByName(name string) (*models.Role, error)
	List() ([]models.Role, error)
	Update(role *models.Role) error
	Delete(id uint64) error
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	Create(project *models.Project) error

	// FindByID finds a project without relations
	FindByID(id uint64) (*models.Project, error)

	// FindByIDWithDetails loads a project with members, tasks (and their
	// children) and sprints. Membership mutations return this full view.
	FindByIDWithDetails(id uint64) (*models.Project, error)

	// ListByUser returns the projects a user owns or is a member of,
	// with full details, newest first.
	ListByUser(userID uint64) ([]models.Project, error)

	// VisibleProjectIDs returns ids of projects the user owns or is a member of
	VisibleProjectIDs(userID uint64) ([]uint64, error)

	Update(project *models.Project) error

	// Delete removes the project and every dependent row (tasks with their
	// comments, subtasks and attachments, memberships, sprints) in one
	// transaction.
	Delete(id uint64) error

	AddMember(member *models.ProjectMember) error
	UpdateMemberRole(projectID, userID, roleID uint64) error
	RemoveMember(projectID, userID uint64) error
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)
}

// SprintRepository defines the interface for sprint data access
type SprintRepository interface {
	Create(sprint *models.Sprint) error
	FindByID(id uint64) (*models.Sprint, error)
	ListByProject(projectID uint64) ([]models.Sprint, error)

	// ListByProjectIDs returns sprints of the given projects with the owning
	// project preloaded, most recently ending first.
	ListByProjectIDs(projectIDs []uint64) ([]models.Sprint, error)

	Update(sprint *models.Sprint) error

	// Delete moves the sprint's tasks back to the backlog, then removes the sprint
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectIDs  []uint64
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

// TaskRepository defines the interface for task data access, including the
// task's child records (subtasks, comments, attachments).
type TaskRepository interface {
	Create(task *models.Task) error
	FindByID(id uint64) (*models.Task, error)
	List(filter TaskFilter) ([]models.Task, int64, error)
	Update(task *models.Task) error

	// Delete removes a task and its children in one transaction
	Delete(id uint64) error

	// UpdateStatusBulk sets the status of every given task
	UpdateStatusBulk(taskIDs []uint64, status models.TaskStatus) error

	CreateSubtask(subtask *models.Subtask) error
	FindSubtaskByID(id uint64) (*models.Subtask, error)
	UpdateSubtask(subtask *models.Subtask) error
	DeleteSubtask(id uint64) error

	ListCommentsByTask(taskID uint64) ([]models.Comment, error)
	CreateComment(comment *models.Comment) error
	FindCommentByID(id uint64) (*models.Comment, error)
	UpdateComment(comment *models.Comment) error
	DeleteComment(id uint64) error

	CreateAttachment(attachment *models.Attachment) error
	FindAttachmentByID(id uint64) (*models.Attachment, error)
	DeleteAttachment(id uint64) error
}

// TaskTypeRepository defines the interface for task type data access
type TaskTypeRepository interface {
	Create(taskType *models.TaskType) error
	FindByID(id uint64) (*models.TaskType, error)
	List() ([]models.TaskType, error)
	Update(taskType *models.TaskType) error

	// Delete nulls the type reference on tasks that used it, then removes the type
	Delete(id uint64) error
}

// StatusCount is one row of a tasks-by-status grouping.
type StatusCount struct {
	Status models.TaskStatus
	Count  int64
}

// SprintStatusCount is one row of the batched per-sprint task grouping.
type SprintStatusCount struct {
	SprintID uint64
	Status   models.TaskStatus
	Count    int64
}

// AssigneeStatusCount is one row of the per-assignee task grouping.
type AssigneeStatusCount struct {
	AssigneeID uint64
	Status     models.TaskStatus
	Count      int64
}

// ReportRepository provides the read-only queries behind the aggregation
// engine. Nothing here mutates source data.
type ReportRepository interface {
	// TaskStatusCounts groups a project's tasks by status
	TaskStatusCounts(projectID uint64) ([]StatusCount, error)

	// SprintCount counts a project's sprints
	SprintCount(projectID uint64) (int64, error)

	// LastEndedSprints returns up to limit sprints of the project whose end
	// date has passed, most recently ended first, with tasks preloaded.
	LastEndedSprints(projectID uint64, limit int) ([]models.Sprint, error)

	// TasksByProjectIDs loads all tasks of the given projects
	TasksByProjectIDs(projectIDs []uint64) ([]models.Task, error)

	// SumSprintCompletedPoints sums the denormalized story_points_completed
	// counter over the given projects' sprints.
	SumSprintCompletedPoints(projectIDs []uint64) (int, error)

	// SprintsByProjectIDs returns the given projects' sprints with the owning
	// project preloaded, most recently ending first. Tasks are not loaded;
	// SprintTaskCounts covers them in one batched query.
	SprintsByProjectIDs(projectIDs []uint64) ([]models.Sprint, error)

	// SprintTaskCounts groups tasks of all given sprints by sprint and status
	// in a single query.
	SprintTaskCounts(sprintIDs []uint64) ([]SprintStatusCount, error)

	// MembersByProjectIDs returns the distinct users holding a membership in
	// any of the given projects.
	MembersByProjectIDs(projectIDs []uint64) ([]models.User, error)

	// AssigneeTaskCounts groups tasks of the given projects by assignee and
	// status for the given users.
	AssigneeTaskCounts(projectIDs, userIDs []uint64) ([]AssigneeStatusCount, error)

	// TasksWithAssignees loads a project's assigned tasks with assignees preloaded
	TasksWithAssignees(projectID uint64) ([]models.Task, error)

	// SprintsWithTasks loads a project's sprints with tasks, by start date
	SprintsWithTasks(projectID uint64) ([]models.Sprint, error)
}
