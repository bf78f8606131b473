package entity

// StackEnvironment links a stack to one of its target environments. Dependency
// edges attach here rather than to the stack itself, so the same stack can
// depend on different rows per environment.
type StackEnvironment struct {
	ID            uint `json:"id" gorm:"primaryKey"`
	StackID       uint `json:"stack_id" gorm:"not null;index;uniqueIndex:idx_stack_environments_pair"`
	EnvironmentID uint `json:"environment_id" gorm:"not null;index;uniqueIndex:idx_stack_environments_pair"`
}
