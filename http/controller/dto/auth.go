package dto

type IssueTokenRequestDTO struct {
	Username string `json:"username" binding:"required,min=1,max=100"`
}
