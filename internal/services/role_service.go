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
	ErrRoleNameMissing = errors.New("role name is required")
	ErrRoleNameTaken   = errors.New("a role with this name already exists")
)

// RoleService provides business logic for managing roles.
type RoleService struct {
	roleRepo repository.RoleRepository
}

// NewRoleService creates a new RoleService.
func NewRoleService(roleRepo repository.RoleRepository) *RoleService {
	return &RoleService{roleRepo: roleRepo}
}

// CreateRoleInput represents parameters to create a role.
type CreateRoleInput struct {
	Name        string
	Description string
	Scope       models.RoleScope
	Permissions []string
}

// CreateRole creates a role.
func (s *RoleService) CreateRole(input CreateRoleInput) (*models.Role, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrRoleNameMissing
	}

	if _, err := s.roleRepo.FindByName(input.Name); err == nil {
		return nil, ErrRoleNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check role name: %w", err)
	}

	scope := input.Scope
	if scope == "" {
		scope = models.RoleScopeSystem
	}

	role := &models.Role{
		Name:        input.Name,
		Description: input.Description,
		Scope:       scope,
		Permissions: models.PermissionList(input.Permissions),
	}
	if err := s.roleRepo.Create(role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

// ListRoles returns all roles.
func (s *RoleService) ListRoles() ([]models.Role, error) {
	roles, err := s.roleRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

// UpdateRoleInput represents fields that can change on a role.
type UpdateRoleInput struct {
	Name        *string
	Description *string
	Permissions *[]string
}

// UpdateRole applies the given changes. Permission edits take effect on the
// next request of every user holding the role, since the gate reloads
// permissions from the store.
func (s *RoleService) UpdateRole(id uint64, input UpdateRoleInput) (*models.Role, error) {
	role, err := s.roleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to find role: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrRoleNameMissing
		}
		role.Name = *input.Name
	}
	if input.Description != nil {
		role.Description = *input.Description
	}
	if input.Permissions != nil {
		role.Permissions = models.PermissionList(*input.Permissions)
	}

	if err := s.roleRepo.Update(role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return role, nil
}

// DeleteRole removes a role.
func (s *RoleService) DeleteRole(id uint64) error {
	if _, err := s.roleRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to find role: %w", err)
	}
	if err := s.roleRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}
	return nil
}
