package repository

import (
	"github.com/pmoura/scrumboard-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskTypeRepository is a GORM implementation of TaskTypeRepository
type GormTaskTypeRepository struct {
	db *gorm.DB
}

// NewTaskTypeRepository creates a new TaskTypeRepository
func NewTaskTypeRepository(db *gorm.DB) TaskTypeRepository {
	return &GormTaskTypeRepository{db: db}
}

func (r *GormTaskTypeRepository) Create(taskType *models.TaskType) error {
	return r.db.Create(taskType).Error
}

func (r *GormTaskTypeRepository) FindByID(id uint64) (*models.TaskType, error) {
	var taskType models.TaskType
	if err := r.db.First(&taskType, id).Error; err != nil {
		return nil, err
	}
	return &taskType, nil
}

func (r *GormTaskTypeRepository) List() ([]models.TaskType, error) {
	var taskTypes []models.TaskType
	if err := r.db.Order("name ASC").Find(&taskTypes).Error; err != nil {
		return nil, err
	}
	return taskTypes, nil
}

func (r *GormTaskTypeRepository) Update(taskType *models.TaskType) error {
	return r.db.Save(taskType).Error
}

// Delete nulls the type reference on tasks that used it, then removes the
// type. Tasks are never cascade-deleted with their type.
func (r *GormTaskTypeRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("type_id = ?", id).
			Update("type_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.TaskType{}, id).Error
	})
}
