package repository

import (
	"time"

	"github.com/pmoura/scrumboard-api/internal/models"
	"gorm.io/gorm"
)

// GormReportRepository is a GORM implementation of ReportRepository
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

// TaskStatusCounts groups a project's tasks by status
func (r *GormReportRepository) TaskStatusCounts(projectID uint64) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Where("project_id = ?", projectID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// SprintCount counts a project's sprints
func (r *GormReportRepository) SprintCount(projectID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Sprint{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

// LastEndedSprints returns up to limit sprints whose end date has passed,
// most recently ended first, with tasks preloaded.
func (r *GormReportRepository) LastEndedSprints(projectID uint64, limit int) ([]models.Sprint, error) {
	var sprints []models.Sprint
	err := r.db.
		Preload("Tasks").
		Where("project_id = ? AND end_date IS NOT NULL AND end_date < ?", projectID, time.Now()).
		Order("end_date DESC").
		Limit(limit).
		Find(&sprints).Error
	if err != nil {
		return nil, err
	}
	return sprints, nil
}

// TasksByProjectIDs loads all tasks of the given projects
func (r *GormReportRepository) TasksByProjectIDs(projectIDs []uint64) ([]models.Task, error) {
	if len(projectIDs) == 0 {
		return []models.Task{}, nil
	}
	var tasks []models.Task
	err := r.db.Where("project_id IN ?", projectIDs).Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// SumSprintCompletedPoints sums the denormalized story_points_completed
// counter over the given projects' sprints.
func (r *GormReportRepository) SumSprintCompletedPoints(projectIDs []uint64) (int, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}
	var total *int
	err := r.db.Model(&models.Sprint{}).
		Select("SUM(story_points_completed)").
		Where("project_id IN ?", projectIDs).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// SprintsByProjectIDs returns the given projects' sprints with the owning
// project preloaded, most recently ending first.
func (r *GormReportRepository) SprintsByProjectIDs(projectIDs []uint64) ([]models.Sprint, error) {
	if len(projectIDs) == 0 {
		return []models.Sprint{}, nil
	}
	var sprints []models.Sprint
	err := r.db.
		Preload("Project").
		Where("project_id IN ?", projectIDs).
		Order("end_date DESC").
		Find(&sprints).Error
	if err != nil {
		return nil, err
	}
	return sprints, nil
}

// SprintTaskCounts groups tasks of all given sprints by sprint and status in
// a single query, instead of one query per sprint.
func (r *GormReportRepository) SprintTaskCounts(sprintIDs []uint64) ([]SprintStatusCount, error) {
	if len(sprintIDs) == 0 {
		return []SprintStatusCount{}, nil
	}
	var counts []SprintStatusCount
	err := r.db.Model(&models.Task{}).
		Select("sprint_id, status, COUNT(*) AS count").
		Where("sprint_id IN ?", sprintIDs).
		Group("sprint_id, status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// MembersByProjectIDs returns the distinct users holding a membership in any
// of the given projects.
func (r *GormReportRepository) MembersByProjectIDs(projectIDs []uint64) ([]models.User, error) {
	if len(projectIDs) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	err := r.db.Model(&models.User{}).
		Distinct("users.*").
		Joins("JOIN project_members ON project_members.user_id = users.id").
		Where("project_members.project_id IN ?", projectIDs).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// AssigneeTaskCounts groups tasks of the given projects by assignee and
// status for the given users.
func (r *GormReportRepository) AssigneeTaskCounts(projectIDs, userIDs []uint64) ([]AssigneeStatusCount, error) {
	if len(projectIDs) == 0 || len(userIDs) == 0 {
		return []AssigneeStatusCount{}, nil
	}
	var counts []AssigneeStatusCount
	err := r.db.Model(&models.Task{}).
		Select("assignee_id, status, COUNT(*) AS count").
		Where("project_id IN ? AND assignee_id IN ?", projectIDs, userIDs).
		Group("assignee_id, status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// TasksWithAssignees loads a project's assigned tasks with assignees preloaded
func (r *GormReportRepository) TasksWithAssignees(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Preload("Assignee").
		Where("project_id = ? AND assignee_id IS NOT NULL", projectID).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// SprintsWithTasks loads a project's sprints with tasks, ordered by start date
func (r *GormReportRepository) SprintsWithTasks(projectID uint64) ([]models.Sprint, error) {
	var sprints []models.Sprint
	err := r.db.
		Preload("Tasks").
		Where("project_id = ?", projectID).
		Order("start_date ASC").
		Find(&sprints).Error
	if err != nil {
		return nil, err
	}
	return sprints, nil
}
