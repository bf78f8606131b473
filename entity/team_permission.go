package entity

import "time"

// TeamPermission grants a team access to a project, environment or stack.
// The *Dependencies flags extend the grant to stacks reachable through
// depends_on edges.
type TeamPermission struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	TeamID               uint      `json:"team_id" gorm:"not null;index"`
	ResourceType         string    `json:"resource_type" binding:"required,oneof=project environment stack" gorm:"size:50;not null"`
	ResourceID           uint      `json:"resource_id" binding:"required" gorm:"not null"`
	AllStacks            bool      `json:"all_stacks" gorm:"not null;default:false"`
	CanView              bool      `json:"can_view" gorm:"not null;default:true"`
	CanPlan              bool      `json:"can_plan" gorm:"not null;default:false"`
	CanApply             bool      `json:"can_apply" gorm:"not null;default:false"`
	CanViewDependencies  bool      `json:"can_view_dependencies" gorm:"not null;default:false"`
	CanPlanDependencies  bool      `json:"can_plan_dependencies" gorm:"not null;default:false"`
	CanApplyDependencies bool      `json:"can_apply_dependencies" gorm:"not null;default:false"`
	CreatedAt            time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt            time.Time `json:"updated_at" gorm:"not null"`
}
