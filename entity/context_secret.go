package entity

import "time"

// ContextSecret references a secret by its Vault path; the value itself never
// touches the database.
type ContextSecret struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ContextID uint      `json:"context_id" gorm:"not null;index"`
	SecretKey string    `json:"secret_key" binding:"required,min=1,max=255" gorm:"size:255;not null"`
	VaultPath string    `json:"vault_path" binding:"required,min=1,max=500" gorm:"size:500;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}
