package repository

import (
	"github.com/pmoura/scrumboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSprintRepository is a GORM implementation of SprintRepository
type GormSprintRepository struct {
	db *gorm.DB
}

// NewSprintRepository creates a new SprintRepository
func NewSprintRepository(db *gorm.DB) SprintRepository {
	return &GormSprintRepository{db: db}
}

func (r *GormSprintRepository) Create(sprint *models.Sprint) error {
	return r.db.Create(sprint).Error
}

func (r *GormSprintRepository) FindByID(id uint64) (*models.Sprint, error) {
	var sprint models.Sprint
	err := r.db.
		Preload("Project").
		Preload("Tasks").
		First(&sprint, id).Error
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (r *GormSprintRepository) ListByProject(projectID uint64) ([]models.Sprint, error) {
	var sprints []models.Sprint
	err := r.db.
		Preload("Project").
		Preload("Tasks").
		Where("project_id = ?", projectID).
		Order("start_date DESC").
		Find(&sprints).Error
	if err != nil {
		return nil, err
	}
	return sprints, nil
}

func (r *GormSprintRepository) ListByProjectIDs(projectIDs []uint64) ([]models.Sprint, error) {
	if len(projectIDs) == 0 {
		return []models.Sprint{}, nil
	}
	var sprints []models.Sprint
	err := r.db.
		Preload("Project").
		Preload("Tasks").
		Where("project_id IN ?", projectIDs).
		Order("end_date DESC").
		Find(&sprints).Error
	if err != nil {
		return nil, err
	}
	return sprints, nil
}

func (r *GormSprintRepository) Update(sprint *models.Sprint) error {
	return r.db.Omit(clause.Associations).Save(sprint).Error
}

// Delete moves the sprint's tasks back to the backlog, then removes the sprint
func (r *GormSprintRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("sprint_id = ?", id).
			Update("sprint_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Sprint{}, id).Error
	})
}
