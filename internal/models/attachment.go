package models

import "time"

type Attachment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	FileName  string    `gorm:"type:varchar(255);not null" json:"file_name"`
	URL       string    `gorm:"type:varchar(1024);not null" json:"url"`
	FileType  string    `gorm:"type:varchar(100)" json:"file_type"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
