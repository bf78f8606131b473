package entity

import "time"

type Environment struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ProjectID        uint      `json:"project_id" gorm:"not null;index;uniqueIndex:idx_environments_project_name"`
	Name             string    `json:"name" gorm:"size:255;not null;uniqueIndex:idx_environments_project_name"`
	Directory        string    `json:"directory" gorm:"size:500;not null"`
	BackendStorageID *uint     `json:"backend_storage_id" gorm:"index"`
	CreatedAt        time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"not null"`
}
