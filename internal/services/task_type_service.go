package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pmoura/scrumboard-api/internal/models"
	"github.com/pmoura/scrumboard-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskTypeNotFound    = errors.New("task type not found")
	ErrTaskTypeNameMissing = errors.New("task type name is required")
)

// TaskTypeService provides business logic for task types.
type TaskTypeService struct {
	taskTypeRepo repository.TaskTypeRepository
}

// NewTaskTypeService creates a new TaskTypeService.
func NewTaskTypeService(taskTypeRepo repository.TaskTypeRepository) *TaskTypeService {
	return &TaskTypeService{taskTypeRepo: taskTypeRepo}
}

// CreateTaskTypeInput represents parameters to create a task type.
type CreateTaskTypeInput struct {
	Name  string
	Icon  string
	Color string
}

// CreateTaskType creates a task type.
func (s *TaskTypeService) CreateTaskType(input CreateTaskTypeInput) (*models.TaskType, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTaskTypeNameMissing
	}

	taskType := &models.TaskType{
		Name:  input.Name,
		Icon:  input.Icon,
		Color: input.Color,
	}
	if err := s.taskTypeRepo.Create(taskType); err != nil {
		return nil, fmt.Errorf("failed to create task type: %w", err)
	}
	return taskType, nil
}

// ListTaskTypes returns all task types ordered by name.
func (s *TaskTypeService) ListTaskTypes() ([]models.TaskType, error) {
	taskTypes, err := s.taskTypeRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}
	return taskTypes, nil
}

// UpdateTaskTypeInput represents fields that can change on a task type.
type UpdateTaskTypeInput struct {
	Name  *string
	Icon  *string
	Color *string
}

// UpdateTaskType applies the given changes.
func (s *TaskTypeService) UpdateTaskType(id uint64, input UpdateTaskTypeInput) (*models.TaskType, error) {
	taskType, err := s.taskTypeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskTypeNotFound
		}
		return nil, fmt.Errorf("failed to find task type: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrTaskTypeNameMissing
		}
		taskType.Name = *input.Name
	}
	if input.Icon != nil {
		taskType.Icon = *input.Icon
	}
	if input.Color != nil {
		taskType.Color = *input.Color
	}

	if err := s.taskTypeRepo.Update(taskType); err != nil {
		return nil, fmt.Errorf("failed to update task type: %w", err)
	}
	return taskType, nil
}

// DeleteTaskType removes a type; tasks that used it keep existing with a
// null type reference.
func (s *TaskTypeService) DeleteTaskType(id uint64) error {
	if _, err := s.taskTypeRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskTypeNotFound
		}
		return fmt.Errorf("failed to find task type: %w", err)
	}
	if err := s.taskTypeRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task type: %w", err)
	}
	return nil
}
