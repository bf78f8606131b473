package entity

import "time"

// BackendStorage describes an S3-compatible bucket used for IaC state.
// Credentials live in Vault; VaultPath points at them and the *Field columns
// name the keys inside the secret.
type BackendStorage struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" binding:"required,min=1,max=255" gorm:"size:255;not null;index"`
	EndpointURL    string    `json:"endpoint_url" binding:"required,max=500" gorm:"size:500;not null"`
	BucketName     string    `json:"bucket_name" binding:"required,max=255" gorm:"size:255;not null"`
	Region         string    `json:"region" gorm:"size:100;not null;default:us-east-1"`
	VaultPath      string    `json:"vault_path" binding:"required,max=500" gorm:"size:500;not null"`
	AccessKeyField string    `json:"access_key_field" gorm:"size:255;not null;default:access_key"`
	SecretKeyField string    `json:"secret_key_field" gorm:"size:255;not null;default:secret_key"`
	CreatedAt      time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"not null"`
}
