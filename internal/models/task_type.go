package models

import "time"

// TaskType is a display grouping for tasks. Deleting one nulls the reference
// on tasks that used it; the tasks themselves are kept.
type TaskType struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Icon      string    `gorm:"type:varchar(100)" json:"icon"`
	Color     string    `gorm:"type:varchar(30)" json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
