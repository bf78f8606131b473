package entity

import "time"

type Context struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ProjectID   uint            `json:"project_id" gorm:"not null;index"`
	Name        string          `json:"name" binding:"required,min=1,max=255" gorm:"size:255;not null;index"`
	Description string          `json:"description" gorm:"size:1000"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"not null"`
	Secrets     []ContextSecret `json:"secrets,omitempty" gorm:"foreignKey:ContextID;constraint:OnDelete:CASCADE"`
	EnvVars     []ContextEnvVar `json:"env_vars,omitempty" gorm:"foreignKey:ContextID;constraint:OnDelete:CASCADE"`
}
