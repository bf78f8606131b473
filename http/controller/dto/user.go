package dto

type CreateUserRequestDTO struct {
	Username string `json:"username" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,min=1,max=255"`
}

type UpdateUserRequestDTO struct {
	Email *string `json:"email" binding:"omitempty,email,max=255"`
	Name  *string `json:"name" binding:"omitempty,min=1,max=255"`
}
