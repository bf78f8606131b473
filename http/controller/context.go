package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/colonia-io/colonia/entity"
	"github.com/colonia-io/colonia/http/controller/dto"
	"github.com/colonia-io/colonia/repository"
	"github.com/colonia-io/colonia/utils"
)

func (ctrl *Controller) CreateContext(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateContextRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	if _, err := ctrl.Repository.ProjectRepo.GetByID(req.ProjectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Project not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to get project %d: %v", req.ProjectID, err)
		utils.JSON500(c, "Failed to create context")
		return
	}

	contextRow := &entity.Context{
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := ctrl.Repository.ContextRepo.Create(contextRow); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to create context: %v", err)
		utils.JSON500(c, "Failed to create context")
		return
	}

	ctrl.invalidateStatsCache(c)
	utils.JSON201(c, contextRow)
}

func (ctrl *Controller) ListContexts(c *gin.Context) {
	ctx := c.Request.Context()

	if val := c.Query("project_id"); val != "" {
		projectID, err := parseQueryID(val)
		if err != nil {
			utils.JSON400(c, "Invalid project_id")
			return
		}
		contexts, err := ctrl.Repository.ContextRepo.ListByProject(projectID)
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to list contexts of project %d: %v", projectID, err)
			utils.JSON500(c, "Failed to list contexts")
			return
		}
		utils.JSON200(c, contexts)
		return
	}

	contexts, err := ctrl.Repository.ContextRepo.List()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to list contexts: %v", err)
		utils.JSON500(c, "Failed to list contexts")
		return
	}
	utils.JSON200(c, contexts)
}

func (ctrl *Controller) GetContextByID(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contextRow, err := ctrl.Repository.ContextRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Context not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to get context %d: %v", id, err)
		utils.JSON500(c, "Failed to get context")
		return
	}

	environments, err := ctrl.Repository.ContextRepo.ListEnvironmentAttachments(id)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to list environment attachments of context %d: %v", id, err)
		utils.JSON500(c, "Failed to get context")
		return
	}
	stacks, err := ctrl.Repository.ContextRepo.ListStackAttachments(id)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to list stack attachments of context %d: %v", id, err)
		utils.JSON500(c, "Failed to get context")
		return
	}

	utils.JSON200(c, gin.H{
		"context":      contextRow,
		"environments": environments,
		"stacks":       stacks,
	})
}

func (ctrl *Controller) UpdateContext(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateContextRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	contextRow, err := ctrl.Repository.ContextRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Context not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to get context %d: %v", id, err)
		utils.JSON500(c, "Failed to update context")
		return
	}

	if req.Name != nil {
		contextRow.Name = *req.Name
	}
	if req.Description != nil {
		contextRow.Description = *req.Description
	}

	if err := ctrl.Repository.ContextRepo.Update(contextRow); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to update context %d: %v", id, err)
		utils.JSON500(c, "Failed to update context")
		return
	}
	utils.JSON200(c, contextRow)
}

func (ctrl *Controller) DeleteContext(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := ctrl.Repository.ContextRepo.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Context not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to get context %d: %v", id, err)
		utils.JSON500(c, "Failed to delete context")
		return
	}

	if err := ctrl.Repository.ContextRepo.Delete(id); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to delete context %d: %v", id, err)
		utils.JSON500(c, "Failed to delete context")
		return
	}

	ctrl.invalidateStatsCache(c)
	utils.JSON200(c, gin.H{"deleted": id})
}

func (ctrl *Controller) AddContextSecret(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AddContextSecretRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	if _, err := ctrl.Repository.ContextRepo.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Context not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to get context %d: %v", id, err)
		utils.JSON500(c, "Failed to add secret")
		return
	}

	secret := &entity.ContextSecret{
		ContextID: id,
		SecretKey: req.SecretKey,
		VaultPath: req.VaultPath,
	}
	if err := ctrl.Repository.ContextRepo.AddSecret(secret); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to add secret: %v", err)
		utils.JSON500(c, "Failed to add secret")
		return
	}
	utils.JSON201(c, secret)
}

func (ctrl *Controller) DeleteContextSecret(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	secretID, ok := parseIDParam(c, "secret_id")
	if !ok {
		return
	}

	if err := ctrl.Repository.ContextRepo.DeleteSecret(id, secretID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to delete secret %d of context %d: %v", secretID, id, err)
		utils.JSON500(c, "Failed to delete secret")
		return
	}
	utils.JSON200(c, gin.H{"deleted": secretID})
}

func (ctrl *Controller) AddContextEnvVar(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AddContextEnvVarRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	if _, err := ctrl.Repository.ContextRepo.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Context not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to get context %d: %v", id, err)
		utils.JSON500(c, "Failed to add env var")
		return
	}

	envVar := &entity.ContextEnvVar{
		ContextID: id,
		Key:       req.Key,
		Value:     req.Value,
	}
	if err := ctrl.Repository.ContextRepo.AddEnvVar(envVar); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to add env var: %v", err)
		utils.JSON500(c, "Failed to add env var")
		return
	}
	utils.JSON201(c, envVar)
}

func (ctrl *Controller) DeleteContextEnvVar(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	envVarID, ok := parseIDParam(c, "env_var_id")
	if !ok {
		return
	}

	if err := ctrl.Repository.ContextRepo.DeleteEnvVar(id, envVarID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to delete env var %d of context %d: %v", envVarID, id, err)
		utils.JSON500(c, "Failed to delete env var")
		return
	}
	utils.JSON200(c, gin.H{"deleted": envVarID})
}

func (ctrl *Controller) AttachContext(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AttachContextRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	if _, err := ctrl.Repository.ContextRepo.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Context not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to get context %d: %v", id, err)
		utils.JSON500(c, "Failed to attach context")
		return
	}

	if req.EnvironmentID != 0 {
		if _, err := ctrl.Repository.EnvironmentRepo.GetByID(req.EnvironmentID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				utils.JSON404(c, "Environment not found")
				return
			}
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to get environment %d: %v", req.EnvironmentID, err)
			utils.JSON500(c, "Failed to attach context")
			return
		}
		if err := ctrl.Repository.ContextRepo.AttachEnvironment(id, req.EnvironmentID); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to attach environment: %v", err)
			utils.JSON500(c, "Failed to attach context")
			return
		}
	}
	if req.StackID != 0 {
		if err := ctrl.Repository.ContextRepo.AttachStack(id, req.StackID); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to attach stack: %v", err)
			utils.JSON500(c, "Failed to attach context")
			return
		}
	}

	utils.JSON200(c, gin.H{"attached": id})
}

func (ctrl *Controller) DetachContext(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AttachContextRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	if req.EnvironmentID != 0 {
		if err := ctrl.Repository.ContextRepo.DetachEnvironment(id, req.EnvironmentID); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to detach environment: %v", err)
			utils.JSON500(c, "Failed to detach context")
			return
		}
	}
	if req.StackID != 0 {
		if err := ctrl.Repository.ContextRepo.DetachStack(id, req.StackID); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Context] Failed to detach stack: %v", err)
			utils.JSON500(c, "Failed to detach context")
			return
		}
	}

	utils.JSON200(c, gin.H{"detached": id})
}
