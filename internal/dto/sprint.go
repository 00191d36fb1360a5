package dto

import (
	"time"

	"github.com/pmoura/scrumboard-api/internal/models"
)

// SprintDTO represents a sprint in API responses
type SprintDTO struct {
	ID                   uint64     `json:"id"`
	Name                 string     `json:"name"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	StoryPointsCommitted int        `json:"story_points_committed"`
	StoryPointsCompleted int        `json:"story_points_completed"`
	ProjectID            uint64     `json:"project_id"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	Tasks                []TaskDTO  `json:"tasks,omitempty"`
}

// ToSprintDTO converts a Sprint model to SprintDTO
func ToSprintDTO(sprint models.Sprint) SprintDTO {
	dto := SprintDTO{
		ID:                   sprint.ID,
		Name:                 sprint.Name,
		StartDate:            sprint.StartDate,
		EndDate:              sprint.EndDate,
		StoryPointsCommitted: sprint.StoryPointsCommitted,
		StoryPointsCompleted: sprint.StoryPointsCompleted,
		ProjectID:            sprint.ProjectID,
		CreatedAt:            sprint.CreatedAt,
		UpdatedAt:            sprint.UpdatedAt,
	}

	if len(sprint.Tasks) > 0 {
		dto.Tasks = make([]TaskDTO, len(sprint.Tasks))
		for i, task := range sprint.Tasks {
			dto.Tasks[i] = ToTaskDTO(task)
		}
	}

	return dto
}

// ToSprintDTOs converts a slice of sprints
func ToSprintDTOs(sprints []models.Sprint) []SprintDTO {
	dtos := make([]SprintDTO, len(sprints))
	for i, sprint := range sprints {
		dtos[i] = ToSprintDTO(sprint)
	}
	return dtos
}
