package database

import (
	"errors"
	"fmt"

	"github.com/pmoura/scrumboard-api/internal/constants"
	"github.com/pmoura/scrumboard-api/internal/models"
	"gorm.io/gorm"
)

// defaultRoles are the roles the application needs to operate. Registration
// fails fatally if Admin or Member is missing, so seeding must run before the
// server accepts traffic.
var defaultRoles = []models.Role{
	{
		Name:        constants.RoleAdmin,
		Description: "System administrator with full access.",
		Scope:       models.RoleScopeSystem,
		Permissions: models.PermissionList{
			constants.PermUsersCreate, constants.PermUsersRead,
			constants.PermUsersUpdate, constants.PermUsersDelete,
			constants.PermRolesCreate, constants.PermRolesRead,
			constants.PermRolesUpdate, constants.PermRolesDelete,
			constants.PermProjectsRead, constants.PermProjectsDelete,
			constants.PermAdminManage,
		},
	},
	{
		Name:        constants.RoleMember,
		Description: "Default system user, can create and join projects.",
		Scope:       models.RoleScopeSystem,
		Permissions: models.PermissionList{
			constants.PermProjectsCreate,
		},
	},
	{
		Name:        constants.RoleOwner,
		Description: "Project owner, full control over the project.",
		Scope:       models.RoleScopeProject,
		Permissions: models.PermissionList{
			constants.PermProjectUpdate, constants.PermProjectDelete,
			constants.PermProjectManageMembers,
		},
	},
	{
		Name:        constants.RoleEditor,
		Description: "Can edit a project's content.",
		Scope:       models.RoleScopeProject,
		Permissions: models.PermissionList{
			constants.PermProjectManageTasks, constants.PermProjectManageSprints,
		},
	},
	{
		Name:        constants.RoleViewer,
		Description: "Can only view a project's content.",
		Scope:       models.RoleScopeProject,
		Permissions: models.PermissionList{
			constants.PermProjectReadOnly,
		},
	},
}

// SeedRoles upserts the default roles by name. Safe to run repeatedly.
func SeedRoles(db *gorm.DB) error {
	for _, role := range defaultRoles {
		var existing models.Role
		err := db.Where("name = ?", role.Name).First(&existing).Error
		switch {
		case err == nil:
			existing.Description = role.Description
			existing.Scope = role.Scope
			existing.Permissions = role.Permissions
			if err := db.Save(&existing).Error; err != nil {
				return fmt.Errorf("failed to update role %q: %w", role.Name, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&role).Error; err != nil {
				return fmt.Errorf("failed to create role %q: %w", role.Name, err)
			}
		default:
			return fmt.Errorf("failed to look up role %q: %w", role.Name, err)
		}
	}
	return nil
}
