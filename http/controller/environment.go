package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/colonia-io/colonia/entity"
	"github.com/colonia-io/colonia/http/controller/dto"
	"github.com/colonia-io/colonia/repository"
	"github.com/colonia-io/colonia/utils"
)

type environmentGroup struct {
	Project      *entity.Project       `json:"project"`
	Environments []*entity.Environment `json:"environments"`
}

// ListEnvironmentsGrouped returns every environment grouped under its project,
// ordered by project name.
func (ctrl *Controller) ListEnvironmentsGrouped(c *gin.Context) {
	ctx := c.Request.Context()

	projects, err := ctrl.Repository.ProjectRepo.ListOrderedByName()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Failed to list projects: %v", err)
		utils.JSON500(c, "Failed to list environments")
		return
	}

	groups := make([]environmentGroup, 0, len(projects))
	for _, project := range projects {
		environments, err := ctrl.Repository.EnvironmentRepo.ListByProject(project.ID)
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Failed to list environments of project %d: %v", project.ID, err)
			utils.JSON500(c, "Failed to list environments")
			return
		}
		groups = append(groups, environmentGroup{Project: project, Environments: environments})
	}

	utils.JSON200(c, groups)
}

// AssignBackendStorage links or unlinks an environment's state storage.
func (ctrl *Controller) AssignBackendStorage(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AssignBackendStorageRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	env, err := ctrl.Repository.EnvironmentRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Environment not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Failed to get environment %d: %v", id, err)
		utils.JSON500(c, "Failed to assign backend storage")
		return
	}

	if req.BackendStorageID != nil {
		if _, err := ctrl.Repository.BackendStorageRepo.GetByID(*req.BackendStorageID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.JSON404(c, "Backend storage not found")
				return
			}
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Failed to get backend storage %d: %v", *req.BackendStorageID, err)
			utils.JSON500(c, "Failed to assign backend storage")
			return
		}
	}

	env.BackendStorageID = req.BackendStorageID
	if err := ctrl.Repository.EnvironmentRepo.Update(env); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Environment] Failed to update environment %d: %v", id, err)
		utils.JSON500(c, "Failed to assign backend storage")
		return
	}

	utils.JSON200(c, env)
}
