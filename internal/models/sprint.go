package models

import "time"

type Sprint struct {
	ID                   uint64     `gorm:"primarykey" json:"id"`
	Name                 string     `gorm:"type:varchar(255);not null" json:"name"`
	StartDate            *time.Time `json:"start_date"`
	EndDate              *time.Time `gorm:"index" json:"end_date"`
	StoryPointsCommitted int        `gorm:"not null;default:0" json:"story_points_committed"`
	StoryPointsCompleted int        `gorm:"not null;default:0" json:"story_points_completed"`
	ProjectID            uint64     `gorm:"not null;index" json:"project_id"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Tasks   []Task  `gorm:"foreignKey:SprintID" json:"tasks,omitempty"`
}
