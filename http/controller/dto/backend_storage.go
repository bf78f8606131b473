package dto

type CreateBackendStorageRequestDTO struct {
	Name           string `json:"name" binding:"required,min=1,max=255"`
	EndpointURL    string `json:"endpoint_url" binding:"required,url,max=500"`
	BucketName     string `json:"bucket_name" binding:"required,min=3,max=255"`
	Region         string `json:"region" binding:"max=100"`
	VaultPath      string `json:"vault_path" binding:"required,min=1,max=500"`
	AccessKeyField string `json:"access_key_field" binding:"max=255"`
	SecretKeyField string `json:"secret_key_field" binding:"max=255"`
}

type UpdateBackendStorageRequestDTO struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=255"`
	EndpointURL    *string `json:"endpoint_url" binding:"omitempty,url,max=500"`
	BucketName     *string `json:"bucket_name" binding:"omitempty,min=3,max=255"`
	Region         *string `json:"region" binding:"omitempty,max=100"`
	VaultPath      *string `json:"vault_path" binding:"omitempty,min=1,max=500"`
	AccessKeyField *string `json:"access_key_field" binding:"omitempty,max=255"`
	SecretKeyField *string `json:"secret_key_field" binding:"omitempty,max=255"`
}

type AssignBackendStorageRequestDTO struct {
	BackendStorageID *uint `json:"backend_storage_id"`
}
