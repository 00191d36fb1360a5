package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RoleScope distinguishes system-wide roles (Admin, Member) from
// project-scoped roles (Owner, Editor, Viewer).
type RoleScope string

const (
	RoleScopeSystem  RoleScope = "system"
	RoleScopeProject RoleScope = "project"
)

// PermissionList stores a role's permission strings as a JSON text column so
// the same model works on Postgres and the sqlite test driver.
type PermissionList []string

func (p PermissionList) Value() (driver.Value, error) {
	if p == nil {
		p = PermissionList{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal permissions: %w", err)
	}
	return string(data), nil
}

func (p *PermissionList) Scan(value interface{}) error {
	if value == nil {
		*p = PermissionList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for permission list: %T", value)
	}

	if len(data) == 0 {
		*p = PermissionList{}
		return nil
	}
	return json.Unmarshal(data, p)
}

// Contains reports whether the exact permission string is present.
// Matching is binary and case-sensitive; there are no wildcards.
func (p PermissionList) Contains(permission string) bool {
	for _, candidate := range p {
		if candidate == permission {
			return true
		}
	}
	return false
}

type Role struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:varchar(255)" json:"description"`
	Scope       RoleScope      `gorm:"type:varchar(20);not null;default:'system'" json:"scope"`
	Permissions PermissionList `gorm:"type:text" json:"permissions"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
