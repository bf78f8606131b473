package entity

import "time"

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" binding:"required,min=1,max=100" gorm:"size:100;uniqueIndex;not null"`
	Email     string    `json:"email" binding:"required,email,max=255" gorm:"size:255;uniqueIndex;not null"`
	Name      string    `json:"name" binding:"required,min=1,max=255" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}
