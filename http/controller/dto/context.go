package dto

type CreateContextRequestDTO struct {
	ProjectID   uint   `json:"project_id" binding:"required"`
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=1000"`
}

type UpdateContextRequestDTO struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type AddContextSecretRequestDTO struct {
	SecretKey string `json:"secret_key" binding:"required,min=1,max=255"`
	VaultPath string `json:"vault_path" binding:"required,min=1,max=500"`
}

type AddContextEnvVarRequestDTO struct {
	Key   string `json:"key" binding:"required,min=1,max=255"`
	Value string `json:"value" binding:"required,max=1000"`
}

type AttachContextRequestDTO struct {
	EnvironmentID uint `json:"environment_id" binding:"required_without=StackID"`
	StackID       uint `json:"stack_id" binding:"required_without=EnvironmentID"`
}
