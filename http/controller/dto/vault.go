package dto

type SaveVaultConfigRequestDTO struct {
	URL       string `json:"url" binding:"required,url,max=500"`
	Token     string `json:"token" binding:"required"`
	Namespace string `json:"namespace" binding:"max=255"`
}

type EnableSecretsEngineRequestDTO struct {
	Path string `json:"path" binding:"required,min=1,max=255"`
	Type string `json:"type" binding:"omitempty,oneof=kv kv-v2"`
}
