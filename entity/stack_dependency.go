package entity

// StackDependency is a resolved depends_on edge between two stack-environment
// rows of the same environment. DependsOnPath keeps the identifier as declared
// in the manifest; the edge is re-resolved on every scan.
type StackDependency struct {
	ID                 uint   `json:"id" gorm:"primaryKey"`
	StackEnvironmentID uint   `json:"stack_environment_id" gorm:"not null;index;uniqueIndex:idx_stack_dependencies_pair"`
	DependsOnID        uint   `json:"depends_on_id" gorm:"not null;index;uniqueIndex:idx_stack_dependencies_pair"`
	DependsOnPath      string `json:"depends_on_path" gorm:"size:500;not null"`
}
