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
	ErrSprintNotFound    = errors.New("sprint not found")
	ErrInvalidSprintName = errors.New("sprint name cannot be empty")
	ErrNotProjectMember  = errors.New("user is not a member of the project")
)

// SprintService provides business logic for sprints.
type SprintService struct {
	sprintRepo  repository.SprintRepository
	projectRepo repository.ProjectRepository
	projects    *ProjectService
}

// NewSprintService creates a new SprintService.
func NewSprintService(sprintRepo repository.SprintRepository, projectRepo repository.ProjectRepository, projects *ProjectService) *SprintService {
	return &SprintService{
		sprintRepo:  sprintRepo,
		projectRepo: projectRepo,
		projects:    projects,
	}
}

// CreateSprintInput represents parameters to create a sprint.
type CreateSprintInput struct {
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
	ProjectID uint64
	ActorID   uint64
}

// CreateSprint creates a sprint. The acting user must be the project's owner
// or one of its members.
func (s *SprintService) CreateSprint(input CreateSprintInput) (*models.Sprint, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidSprintName
	}

	ok, err := s.projects.IsMemberOrOwner(input.ProjectID, input.ActorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotProjectMember
	}

	sprint := &models.Sprint{
		Name:      input.Name,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		ProjectID: input.ProjectID,
	}
	if err := s.sprintRepo.Create(sprint); err != nil {
		return nil, fmt.Errorf("failed to create sprint: %w", err)
	}

	return s.GetSprint(sprint.ID)
}

// GetSprint returns a sprint with its project and tasks.
func (s *SprintService) GetSprint(id uint64) (*models.Sprint, error) {
	sprint, err := s.sprintRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, fmt.Errorf("failed to find sprint: %w", err)
	}
	return sprint, nil
}

// ListSprintsByProject returns all sprints of one project.
func (s *SprintService) ListSprintsByProject(projectID uint64) ([]models.Sprint, error) {
	sprints, err := s.sprintRepo.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	return sprints, nil
}

// ListSprintsForUser returns all sprints across the user's visible projects,
// most recently ending first.
func (s *SprintService) ListSprintsForUser(userID uint64) ([]models.Sprint, error) {
	projectIDs, err := s.projectRepo.VisibleProjectIDs(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve visible projects: %w", err)
	}
	sprints, err := s.sprintRepo.ListByProjectIDs(projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	return sprints, nil
}

// UpdateSprintInput represents fields that can change on a sprint.
type UpdateSprintInput struct {
	Name                 *string
	StartDate            *time.Time
	EndDate              *time.Time
	StoryPointsCommitted *int
	StoryPointsCompleted *int
}

// UpdateSprint applies the given changes.
func (s *SprintService) UpdateSprint(id uint64, input UpdateSprintInput) (*models.Sprint, error) {
	sprint, err := s.sprintRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSprintNotFound
		}
		return nil, fmt.Errorf("failed to find sprint: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidSprintName
		}
		sprint.Name = *input.Name
	}
	if input.StartDate != nil {
		sprint.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		sprint.EndDate = input.EndDate
	}
	if input.StoryPointsCommitted != nil {
		sprint.StoryPointsCommitted = *input.StoryPointsCommitted
	}
	if input.StoryPointsCompleted != nil {
		sprint.StoryPointsCompleted = *input.StoryPointsCompleted
	}

	if err := s.sprintRepo.Update(sprint); err != nil {
		return nil, fmt.Errorf("failed to update sprint: %w", err)
	}
	return s.GetSprint(id)
}

// DeleteSprint removes a sprint. Its tasks are moved back to the backlog,
// not deleted with it.
func (s *SprintService) DeleteSprint(id uint64) error {
	if _, err := s.sprintRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSprintNotFound
		}
		return fmt.Errorf("failed to find sprint: %w", err)
	}

	if err := s.sprintRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete sprint: %w", err)
	}
	return nil
}
