package entity

type ContextEnvironment struct {
	ContextID     uint `json:"context_id" gorm:"primaryKey"`
	EnvironmentID uint `json:"environment_id" gorm:"primaryKey"`
}
