package entity

import "time"

type ContextEnvVar struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ContextID uint      `json:"context_id" gorm:"not null;index"`
	Key       string    `json:"key" binding:"required,min=1,max=255" gorm:"size:255;not null"`
	Value     string    `json:"value" binding:"required,max=1000" gorm:"size:1000;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}
