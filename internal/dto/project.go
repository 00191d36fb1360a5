package dto

import (
	"time"

	"github.com/pmoura/scrumboard-api/internal/models"
)

// ProjectMemberDTO represents a project member with their project-scoped role
type ProjectMemberDTO struct {
	User        UserDTO   `json:"user"`
	ProjectRole RoleDTO   `json:"projectRole"`
	JoinedAt    time.Time `json:"joined_at"`
}

// ProjectDTO represents a project in list responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	OwnerID     uint64               `json:"owner_id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	Owner       *UserDTO             `json:"owner,omitempty"`
}

// ProjectDetailDTO represents a project with members, tasks and sprints
type ProjectDetailDTO struct {
	ProjectDTO
	Members []ProjectMemberDTO `json:"members"`
	Tasks   []TaskDTO          `json:"tasks"`
	Sprints []SprintDTO        `json:"sprints"`
}

// ToProjectMemberDTO converts a membership row to ProjectMemberDTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		User:        ToUserDTO(member.User),
		ProjectRole: ToRoleDTO(member.Role),
		JoinedAt:    member.JoinedAt,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	if project.Owner.ID != 0 {
		owner := ToUserDTO(project.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(project)
	}
	return dtos
}

// ToProjectDetailDTO converts a fully loaded project to ProjectDetailDTO
func ToProjectDetailDTO(project models.Project) ProjectDetailDTO {
	detail := ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(project),
		Members:    make([]ProjectMemberDTO, len(project.Members)),
		Tasks:      make([]TaskDTO, len(project.Tasks)),
		Sprints:    make([]SprintDTO, len(project.Sprints)),
	}

	for i, member := range project.Members {
		detail.Members[i] = ToProjectMemberDTO(member)
	}
	for i, task := range project.Tasks {
		detail.Tasks[i] = ToTaskDTO(task)
	}
	for i, sprint := range project.Sprints {
		detail.Sprints[i] = ToSprintDTO(sprint)
	}

	return detail
}
