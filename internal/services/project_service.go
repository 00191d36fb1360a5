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
	ErrProjectNotFound      = errors.New("project not found")
	ErrInvalidProjectName   = errors.New("project name cannot be empty")
	ErrAlreadyMember        = errors.New("user is already a member of this project")
	ErrMemberNotFound       = errors.New("project member not found")
	ErrCannotRemoveOwner    = errors.New("the project owner cannot be removed")
	ErrRoleNotFound         = errors.New("role not found")
	ErrRoleNotProjectScoped = errors.New("memberships require a project-scoped role")
)

// ProjectService provides business logic for projects and their memberships.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	roleRepo    repository.RoleRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, roleRepo repository.RoleRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		roleRepo:    roleRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	Status      models.ProjectStatus
	OwnerID     uint64
}

// CreateProject creates a project owned by the acting user and returns the
// full project view.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusActive
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		OwnerID:     input.OwnerID,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.reload(project.ID)
}

// ListProjects returns all projects the user owns or is a member of.
func (s *ProjectService) ListProjects(userID uint64) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns the full project view. A project the user cannot see is
// reported as not found rather than forbidden, to avoid leaking its existence.
func (s *ProjectService) GetProject(projectID, userID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDWithDetails(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	visible, err := s.canSee(project, userID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// UpdateProjectInput represents fields that can change on a project.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
}

// UpdateProject applies the given changes and returns the full project view.
func (s *ProjectService) UpdateProject(projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return s.reload(projectID)
}

// DeleteProject removes a project with all of its dependent data.
func (s *ProjectService) DeleteProject(projectID uint64) error {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AddMember adds a user to a project with a project-scoped role. A second
// membership for the same pair is a conflict, not a storage error.
func (s *ProjectService) AddMember(projectID, userID, roleID uint64) (*models.Project, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.requireProjectRole(roleID); err != nil {
		return nil, err
	}

	if _, err := s.projectRepo.FindMember(projectID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		RoleID:    roleID,
		JoinedAt:  time.Now(),
	}
	if err := s.projectRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return s.reload(projectID)
}

// UpdateMemberRole reassigns a member's project-scoped role. Re-assigning the
// same role is allowed and is a no-op.
func (s *ProjectService) UpdateMemberRole(projectID, userID, roleID uint64) (*models.Project, error) {
	if _, err := s.projectRepo.FindMember(projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	if err := s.requireProjectRole(roleID); err != nil {
		return nil, err
	}

	if err := s.projectRepo.UpdateMemberRole(projectID, userID, roleID); err != nil {
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}
	return s.reload(projectID)
}

// RemoveMember removes a member from a project. The owner is never removable
// through this path, whatever role their membership row carries.
func (s *ProjectService) RemoveMember(projectID, userID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if project.OwnerID == userID {
		return nil, ErrCannotRemoveOwner
	}

	if _, err := s.projectRepo.FindMember(projectID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	if err := s.projectRepo.RemoveMember(projectID, userID); err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}
	return s.reload(projectID)
}

// IsMemberOrOwner reports whether the user can act within the project. The
// owner counts as a member even without an explicit membership row.
func (s *ProjectService) IsMemberOrOwner(projectID, userID uint64) (bool, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProjectNotFound
		}
		return false, fmt.Errorf("failed to find project: %w", err)
	}
	return s.canSee(project, userID)
}

// HasProjectPermission reports whether the user may perform a project-scoped
// action. The owner always may; a member may when their project role carries
// the permission.
func (s *ProjectService) HasProjectPermission(projectID, userID uint64, permission string) (bool, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrProjectNotFound
		}
		return false, fmt.Errorf("failed to find project: %w", err)
	}
	if project.OwnerID == userID {
		return true, nil
	}

	member, err := s.projectRepo.FindMember(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to verify membership: %w", err)
	}

	role, err := s.roleRepo.FindByID(member.RoleID)
	if err != nil {
		return false, fmt.Errorf("failed to load member role: %w", err)
	}
	return role.Permissions.Contains(permission), nil
}

func (s *ProjectService) canSee(project *models.Project, userID uint64) (bool, error) {
	if project.OwnerID == userID {
		return true, nil
	}
	if _, err := s.projectRepo.FindMember(project.ID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to verify membership: %w", err)
	}
	return true, nil
}

func (s *ProjectService) requireProjectRole(roleID uint64) error {
	role, err := s.roleRepo.FindByID(roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to find role: %w", err)
	}
	if role.Scope != models.RoleScopeProject {
		return ErrRoleNotProjectScoped
	}
	return nil
}

// reload returns the freshly loaded full project view. Membership mutations
// hand the whole thing back instead of a delta so clients never merge
// partial state.
func (s *ProjectService) reload(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByIDWithDetails(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload project: %w", err)
	}
	return project, nil
}
