package entity

type ContextStack struct {
	ContextID uint `json:"context_id" gorm:"primaryKey"`
	StackID   uint `json:"stack_id" gorm:"primaryKey"`
}
