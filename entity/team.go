package entity

import "time"

type Team struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Name        string           `json:"name" binding:"required,min=1,max=255" gorm:"size:255;uniqueIndex;not null"`
	Description string           `json:"description" gorm:"size:1000"`
	CreatedAt   time.Time        `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time        `json:"updated_at" gorm:"not null"`
	Members     []TeamMember     `json:"members,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Permissions []TeamPermission `json:"permissions,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}
