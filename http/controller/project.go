package controller

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/colonia-io/colonia/entity"
	"github.com/colonia-io/colonia/http/controller/dto"
	"github.com/colonia-io/colonia/infra/produce"
	"github.com/colonia-io/colonia/repository"
	"github.com/colonia-io/colonia/utils"
)

func (ctrl *Controller) CreateProject(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateProjectRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	project := &entity.Project{
		Name:          req.Name,
		Description:   req.Description,
		RepositoryURL: req.RepositoryURL,
	}
	if err := ctrl.Repository.ProjectRepo.Create(project); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to create project: %v", err)
		utils.JSON500(c, "Failed to create project")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Project] Created project '%s' (id=%d)", project.Name, project.ID)
	ctrl.invalidateStatsCache(c)

	if project.RepositoryURL != "" {
		ctrl.publishScan(c, project)
	}

	utils.JSON201(c, project)
}

func (ctrl *Controller) ListProjects(c *gin.Context) {
	ctx := c.Request.Context()

	projects, err := ctrl.Repository.ProjectRepo.List()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to list projects: %v", err)
		utils.JSON500(c, "Failed to list projects")
		return
	}
	utils.JSON200(c, projects)
}

func (ctrl *Controller) GetProjectByID(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := ctrl.Repository.ProjectRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Project not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to get project %d: %v", id, err)
		utils.JSON500(c, "Failed to get project")
		return
	}

	environments, err := ctrl.Repository.EnvironmentRepo.ListByProject(id)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to list environments of project %d: %v", id, err)
		utils.JSON500(c, "Failed to get project")
		return
	}
	stacks, err := ctrl.Repository.StackRepo.ListByProject(id)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to list stacks of project %d: %v", id, err)
		utils.JSON500(c, "Failed to get project")
		return
	}

	utils.JSON200(c, gin.H{
		"project":      project,
		"environments": environments,
		"stacks":       stacks,
	})
}

func (ctrl *Controller) UpdateProject(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	project, err := ctrl.Repository.ProjectRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Project not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to get project %d: %v", id, err)
		utils.JSON500(c, "Failed to update project")
		return
	}

	repoURLChanged := false
	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.RepositoryURL != nil && *req.RepositoryURL != project.RepositoryURL {
		project.RepositoryURL = *req.RepositoryURL
		repoURLChanged = true
	}

	if err := ctrl.Repository.ProjectRepo.Update(project); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to update project %d: %v", id, err)
		utils.JSON500(c, "Failed to update project")
		return
	}

	if repoURLChanged && project.RepositoryURL != "" {
		ctrl.publishScan(c, project)
	}

	utils.JSON200(c, project)
}

func (ctrl *Controller) DeleteProject(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := ctrl.Repository.ProjectRepo.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Project not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to get project %d: %v", id, err)
		utils.JSON500(c, "Failed to delete project")
		return
	}

	// Cascade in dependency order before removing the project row.
	environments, err := ctrl.Repository.EnvironmentRepo.ListByProject(id)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to list environments of project %d: %v", id, err)
		utils.JSON500(c, "Failed to delete project")
		return
	}
	for _, env := range environments {
		if err := ctrl.Repository.StackRepo.DeleteDependenciesByEnvironment(env.ID); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to delete dependencies of environment %d: %v", env.ID, err)
			utils.JSON500(c, "Failed to delete project")
			return
		}
		if err := ctrl.Repository.StackRepo.DeleteJoinsByEnvironment(env.ID); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to delete stack links of environment %d: %v", env.ID, err)
			utils.JSON500(c, "Failed to delete project")
			return
		}
		if err := ctrl.Repository.ContextRepo.DetachAllByEnvironment(env.ID); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to detach contexts of environment %d: %v", env.ID, err)
			utils.JSON500(c, "Failed to delete project")
			return
		}
	}

	stacks, err := ctrl.Repository.StackRepo.ListByProject(id)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to list stacks of project %d: %v", id, err)
		utils.JSON500(c, "Failed to delete project")
		return
	}
	for _, stack := range stacks {
		if err := ctrl.Repository.ContextRepo.DetachAllByStack(stack.ID); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to detach contexts of stack %d: %v", stack.ID, err)
			utils.JSON500(c, "Failed to delete project")
			return
		}
		if err := ctrl.Repository.StackRepo.Delete(stack.ID); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to delete stack %d: %v", stack.ID, err)
			utils.JSON500(c, "Failed to delete project")
			return
		}
	}

	if err := ctrl.Repository.EnvironmentRepo.DeleteByProject(id); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to delete environments of project %d: %v", id, err)
		utils.JSON500(c, "Failed to delete project")
		return
	}
	if err := ctrl.Repository.ContextRepo.DeleteByProject(id); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to delete contexts of project %d: %v", id, err)
		utils.JSON500(c, "Failed to delete project")
		return
	}
	if err := ctrl.Repository.RepoScanRepo.DeleteByProject(id); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to delete scan history of project %d: %v", id, err)
		utils.JSON500(c, "Failed to delete project")
		return
	}
	if err := ctrl.Repository.ProjectRepo.Delete(id); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to delete project %d: %v", id, err)
		utils.JSON500(c, "Failed to delete project")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Project] Deleted project %d", id)
	ctrl.invalidateStatsCache(c)
	utils.JSON200(c, gin.H{"deleted": id})
}

// TriggerScan publishes a scan message for the project's repository.
func (ctrl *Controller) TriggerScan(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	project, err := ctrl.Repository.ProjectRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Project not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to get project %d: %v", id, err)
		utils.JSON500(c, "Failed to trigger scan")
		return
	}

	if project.RepositoryURL == "" {
		utils.JSON400(c, "Project has no repository URL")
		return
	}

	scanID := ctrl.publishScan(c, project)
	if scanID == uuid.Nil {
		utils.JSON500(c, "Failed to publish scan message")
		return
	}

	utils.JSON200(c, gin.H{"scan_id": scanID})
}

func (ctrl *Controller) ListScans(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	limit := 0
	if val := c.Query("limit"); val != "" {
		limit, _ = strconv.Atoi(val)
	}

	scans, err := ctrl.Repository.RepoScanRepo.ListByProject(id, limit)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to list scans of project %d: %v", id, err)
		utils.JSON500(c, "Failed to list scans")
		return
	}
	utils.JSON200(c, scans)
}

func (ctrl *Controller) publishScan(c *gin.Context, project *entity.Project) uuid.UUID {
	ctx := c.Request.Context()
	msg := produce.RepoScanMessage{
		ScanID:        uuid.New(),
		ProjectID:     project.ID,
		ProjectName:   project.Name,
		RepositoryURL: project.RepositoryURL,
		Timestamp:     time.Now().Unix(),
	}
	if err := ctrl.Infra.Produce.ScanService.PublishRepoScan(ctx, msg); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Project] Failed to publish scan for project %d: %v", project.ID, err)
		return uuid.Nil
	}
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Project] Published scan %s for project '%s'", msg.ScanID, project.Name)
	return msg.ScanID
}
