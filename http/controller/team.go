package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/colonia-io/colonia/entity"
	"github.com/colonia-io/colonia/http/controller/dto"
	"github.com/colonia-io/colonia/repository"
	"github.com/colonia-io/colonia/utils"
)

func (ctrl *Controller) CreateTeam(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTeamRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	exists, err := ctrl.Repository.TeamRepo.ExistsByName(req.Name)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Error checking team name existence: %v", err)
		utils.JSON500(c, "Failed to create team")
		return
	}
	if exists {
		utils.JSON409(c, "Team with this name already exists")
		return
	}

	team := &entity.Team{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := ctrl.Repository.TeamRepo.Create(team); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to create team: %v", err)
		utils.JSON500(c, "Failed to create team")
		return
	}

	ctrl.invalidateStatsCache(c)
	utils.JSON201(c, team)
}

func (ctrl *Controller) ListTeams(c *gin.Context) {
	ctx := c.Request.Context()

	teams, err := ctrl.Repository.TeamRepo.List()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to list teams: %v", err)
		utils.JSON500(c, "Failed to list teams")
		return
	}
	utils.JSON200(c, teams)
}

func (ctrl *Controller) GetTeamByID(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	team, err := ctrl.Repository.TeamRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Team not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to get team %d: %v", id, err)
		utils.JSON500(c, "Failed to get team")
		return
	}
	utils.JSON200(c, team)
}

func (ctrl *Controller) UpdateTeam(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTeamRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	team, err := ctrl.Repository.TeamRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Team not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to get team %d: %v", id, err)
		utils.JSON500(c, "Failed to update team")
		return
	}

	if req.Name != nil {
		team.Name = *req.Name
	}
	if req.Description != nil {
		team.Description = *req.Description
	}

	if err := ctrl.Repository.TeamRepo.Update(team); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to update team %d: %v", id, err)
		utils.JSON500(c, "Failed to update team")
		return
	}
	utils.JSON200(c, team)
}

func (ctrl *Controller) DeleteTeam(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := ctrl.Repository.TeamRepo.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Team not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to get team %d: %v", id, err)
		utils.JSON500(c, "Failed to delete team")
		return
	}

	if err := ctrl.Repository.TeamRepo.Delete(id); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to delete team %d: %v", id, err)
		utils.JSON500(c, "Failed to delete team")
		return
	}

	ctrl.invalidateStatsCache(c)
	utils.JSON200(c, gin.H{"deleted": id})
}

func (ctrl *Controller) AddTeamMember(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AddTeamMemberRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	if _, err := ctrl.Repository.TeamRepo.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Team not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to get team %d: %v", id, err)
		utils.JSON500(c, "Failed to add member")
		return
	}
	if _, err := ctrl.Repository.UserRepo.GetByID(req.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "User not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to get user %d: %v", req.UserID, err)
		utils.JSON500(c, "Failed to add member")
		return
	}

	exists, err := ctrl.Repository.TeamRepo.MemberExists(id, req.UserID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Error checking membership: %v", err)
		utils.JSON500(c, "Failed to add member")
		return
	}
	if exists {
		utils.JSON409(c, "User is already a member of this team")
		return
	}

	role := req.Role
	if role == "" {
		role = "member"
	}
	member := &entity.TeamMember{
		TeamID: id,
		UserID: req.UserID,
		Role:   role,
	}
	if err := ctrl.Repository.TeamRepo.AddMember(member); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to add member: %v", err)
		utils.JSON500(c, "Failed to add member")
		return
	}
	utils.JSON201(c, member)
}

func (ctrl *Controller) RemoveTeamMember(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "member_id")
	if !ok {
		return
	}

	if err := ctrl.Repository.TeamRepo.RemoveMember(id, memberID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to remove member %d from team %d: %v", memberID, id, err)
		utils.JSON500(c, "Failed to remove member")
		return
	}
	utils.JSON200(c, gin.H{"deleted": memberID})
}

func (ctrl *Controller) SetTeamPermission(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetTeamPermissionRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	if _, err := ctrl.Repository.TeamRepo.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Team not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to get team %d: %v", id, err)
		utils.JSON500(c, "Failed to set permission")
		return
	}

	perm := &entity.TeamPermission{
		TeamID:               id,
		ResourceType:         req.ResourceType,
		ResourceID:           req.ResourceID,
		AllStacks:            req.AllStacks,
		CanView:              req.CanView,
		CanPlan:              req.CanPlan,
		CanApply:             req.CanApply,
		CanViewDependencies:  req.CanViewDependencies,
		CanPlanDependencies:  req.CanPlanDependencies,
		CanApplyDependencies: req.CanApplyDependencies,
	}
	if err := ctrl.Repository.TeamRepo.SetPermission(perm); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to set permission: %v", err)
		utils.JSON500(c, "Failed to set permission")
		return
	}
	utils.JSON200(c, perm)
}

func (ctrl *Controller) DeleteTeamPermission(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	permID, ok := parseIDParam(c, "permission_id")
	if !ok {
		return
	}

	if err := ctrl.Repository.TeamRepo.DeletePermission(id, permID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Team] Failed to delete permission %d of team %d: %v", permID, id, err)
		utils.JSON500(c, "Failed to delete permission")
		return
	}
	utils.JSON200(c, gin.H{"deleted": permID})
}
