package dto

import (
	"time"

	"github.com/pmoura/scrumboard-api/internal/models"
)

// RoleDTO represents a role in API responses
type RoleDTO struct {
	ID          uint64           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Scope       models.RoleScope `json:"scope"`
	Permissions []string         `json:"permissions"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	Role      *RoleDTO  `json:"role,omitempty"`
}

// ToRoleDTO converts a Role model to RoleDTO
func ToRoleDTO(role models.Role) RoleDTO {
	permissions := role.Permissions
	if permissions == nil {
		permissions = models.PermissionList{}
	}
	return RoleDTO{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Scope:       role.Scope,
		Permissions: permissions,
	}
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}

	// Include role if preloaded
	if user.Role.ID != 0 {
		role := ToRoleDTO(user.Role)
		dto.Role = &role
	}

	return dto
}
