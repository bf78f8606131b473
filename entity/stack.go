package entity

import "time"

type Stack struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProjectID uint      `json:"project_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	StackPath string    `json:"stack_path" gorm:"size:500"` // manifest `stack` value; dependency identifier
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}
