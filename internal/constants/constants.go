package constants

const (
	// ContextKeyUser is the gin context key holding the resolved user.
	ContextKeyUser = "current_user"

	// TokenCookieName is the cookie carrying the signed credential.
	TokenCookieName = "token"

	MinPasswordLength = 6

	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Permission strings. Presence in a role's permission set grants the matching
// capability; the check is an exact string match.
const (
	PermUsersCreate = "users:create"
	PermUsersRead   = "users:read"
	PermUsersUpdate = "users:update"
	PermUsersDelete = "users:delete"

	PermRolesCreate = "roles:create"
	PermRolesRead   = "roles:read"
	PermRolesUpdate = "roles:update"
	PermRolesDelete = "roles:delete"

	PermProjectsCreate = "projects:create"
	PermProjectsRead   = "projects:read"
	PermProjectsDelete = "projects:delete"

	PermProjectUpdate        = "project:update"
	PermProjectDelete        = "project:delete"
	PermProjectManageMembers = "project:manage_members"
	PermProjectManageTasks   = "project:manage_tasks"
	PermProjectManageSprints = "project:manage_sprints"
	PermProjectReadOnly      = "project:read_only"

	PermAdminManage = "admin:manage"
)

// Seeded role names.
const (
	RoleAdmin  = "Admin"
	RoleMember = "Member"
	RoleOwner  = "Owner"
	RoleEditor = "Editor"
	RoleViewer = "Viewer"
)
