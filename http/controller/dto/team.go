package dto

type CreateTeamRequestDTO struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=1000"`
}

type UpdateTeamRequestDTO struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type AddTeamMemberRequestDTO struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"omitempty,oneof=member admin"`
}

type SetTeamPermissionRequestDTO struct {
	ResourceType         string `json:"resource_type" binding:"required,oneof=project environment stack"`
	ResourceID           uint   `json:"resource_id" binding:"required"`
	AllStacks            bool   `json:"all_stacks"`
	CanView              bool   `json:"can_view"`
	CanPlan              bool   `json:"can_plan"`
	CanApply             bool   `json:"can_apply"`
	CanViewDependencies  bool   `json:"can_view_dependencies"`
	CanPlanDependencies  bool   `json:"can_plan_dependencies"`
	CanApplyDependencies bool   `json:"can_apply_dependencies"`
}
