package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/colonia-io/colonia/entity"
	"github.com/colonia-io/colonia/utils"
)

type stackEnvironmentView struct {
	EnvironmentID   uint     `json:"environment_id"`
	EnvironmentName string   `json:"environment_name"`
	DependsOn       []string `json:"depends_on,omitempty"`
}

type stackView struct {
	ID           uint                   `json:"id"`
	Name         string                 `json:"name"`
	StackPath    string                 `json:"stack_path,omitempty"`
	Environments []stackEnvironmentView `json:"environments"`
}

type stackGroup struct {
	Project *entity.Project `json:"project"`
	Stacks  []stackView     `json:"stacks"`
}

// ListStacksGrouped returns every stack grouped under its project, with the
// environments it targets and the resolved dependency paths per environment.
func (ctrl *Controller) ListStacksGrouped(c *gin.Context) {
	ctx := c.Request.Context()

	projects, err := ctrl.Repository.ProjectRepo.ListOrderedByName()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Stack] Failed to list projects: %v", err)
		utils.JSON500(c, "Failed to list stacks")
		return
	}

	groups := make([]stackGroup, 0, len(projects))
	for _, project := range projects {
		environments, err := ctrl.Repository.EnvironmentRepo.ListByProject(project.ID)
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Stack] Failed to list environments of project %d: %v", project.ID, err)
			utils.JSON500(c, "Failed to list stacks")
			return
		}
		envNames := make(map[uint]string, len(environments))
		for _, env := range environments {
			envNames[env.ID] = env.Name
		}

		stacks, err := ctrl.Repository.StackRepo.ListByProject(project.ID)
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Stack] Failed to list stacks of project %d: %v", project.ID, err)
			utils.JSON500(c, "Failed to list stacks")
			return
		}

		views := make([]stackView, 0, len(stacks))
		for _, stack := range stacks {
			view := stackView{
				ID:        stack.ID,
				Name:      stack.Name,
				StackPath: stack.StackPath,
			}

			joins, err := ctrl.Repository.StackRepo.ListJoinsByStack(stack.ID)
			if err != nil {
				ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Stack] Failed to list links of stack %d: %v", stack.ID, err)
				utils.JSON500(c, "Failed to list stacks")
				return
			}
			for _, join := range joins {
				envView := stackEnvironmentView{
					EnvironmentID:   join.EnvironmentID,
					EnvironmentName: envNames[join.EnvironmentID],
				}
				deps, err := ctrl.Repository.StackRepo.ListDependenciesByJoin(join.ID)
				if err != nil {
					ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Stack] Failed to list dependencies of stack %d: %v", stack.ID, err)
					utils.JSON500(c, "Failed to list stacks")
					return
				}
				for _, dep := range deps {
					envView.DependsOn = append(envView.DependsOn, dep.DependsOnPath)
				}
				view.Environments = append(view.Environments, envView)
			}

			views = append(views, view)
		}

		groups = append(groups, stackGroup{Project: project, Stacks: views})
	}

	utils.JSON200(c, groups)
}
