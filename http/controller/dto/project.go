package dto

type CreateProjectRequestDTO struct {
	Name          string `json:"name" binding:"required,min=1,max=255"`
	Description   string `json:"description" binding:"max=1000"`
	RepositoryURL string `json:"repository_url" binding:"omitempty,url,max=500"`
}

type UpdateProjectRequestDTO struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description   *string `json:"description" binding:"omitempty,max=1000"`
	RepositoryURL *string `json:"repository_url" binding:"omitempty,max=500"`
}
