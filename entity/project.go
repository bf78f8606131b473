package entity

import "time"

type Project struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	Name          string        `json:"name" binding:"required,min=1,max=255" gorm:"size:255;not null;index"`
	Description   string        `json:"description" gorm:"size:1000"`
	RepositoryURL string        `json:"repository_url" gorm:"size:500"`
	CreatedAt     time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time     `json:"updated_at" gorm:"not null"`
	Environments  []Environment `json:"environments,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Stacks        []Stack       `json:"stacks,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}
