package controller

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/colonia-io/colonia/entity"
	"github.com/colonia-io/colonia/http/controller/dto"
	"github.com/colonia-io/colonia/infra"
	"github.com/colonia-io/colonia/repository"
	"github.com/colonia-io/colonia/utils"
)

func (ctrl *Controller) CreateBackendStorage(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateBackendStorageRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Backend Storage] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	storage := &entity.BackendStorage{
		Name:           req.Name,
		EndpointURL:    req.EndpointURL,
		BucketName:     req.BucketName,
		Region:         req.Region,
		VaultPath:      req.VaultPath,
		AccessKeyField: req.AccessKeyField,
		SecretKeyField: req.SecretKeyField,
	}
	if storage.Region == "" {
		storage.Region = "us-east-1"
	}
	if storage.AccessKeyField == "" {
		storage.AccessKeyField = "access_key"
	}
	if storage.SecretKeyField == "" {
		storage.SecretKeyField = "secret_key"
	}

	if err := ctrl.Repository.BackendStorageRepo.Create(storage); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Backend Storage] Failed to create: %v", err)
		utils.JSON500(c, "Failed to create backend storage")
		return
	}
	utils.JSON201(c, storage)
}

func (ctrl *Controller) ListBackendStorages(c *gin.Context) {
	ctx := c.Request.Context()

	storages, err := ctrl.Repository.BackendStorageRepo.List()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Backend Storage] Failed to list: %v", err)
		utils.JSON500(c, "Failed to list backend storages")
		return
	}
	utils.JSON200(c, storages)
}

func (ctrl *Controller) GetBackendStorageByID(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	storage, err := ctrl.Repository.BackendStorageRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Backend storage not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Backend Storage] Failed to get %d: %v", id, err)
		utils.JSON500(c, "Failed to get backend storage")
		return
	}
	utils.JSON200(c, storage)
}

func (ctrl *Controller) UpdateBackendStorage(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBackendStorageRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Backend Storage] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	storage, err := ctrl.Repository.BackendStorageRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Backend storage not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Backend Storage] Failed to get %d: %v", id, err)
		utils.JSON500(c, "Failed to update backend storage")
		return
	}

	if req.Name != nil {
		storage.Name = *req.Name
	}
	if req.EndpointURL != nil {
		storage.EndpointURL = *req.EndpointURL
	}
	if req.BucketName != nil {
		storage.BucketName = *req.BucketName
	}
	if req.Region != nil {
		storage.Region = *req.Region
	}
	if req.VaultPath != nil {
		storage.VaultPath = *req.VaultPath
	}
	if req.AccessKeyField != nil {
		storage.AccessKeyField = *req.AccessKeyField
	}
	if req.SecretKeyField != nil {
		storage.SecretKeyField = *req.SecretKeyField
	}

	if err := ctrl.Repository.BackendStorageRepo.Update(storage); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Backend Storage] Failed to update %d: %v", id, err)
		utils.JSON500(c, "Failed to update backend storage")
		return
	}
	utils.JSON200(c, storage)
}

func (ctrl *Controller) DeleteBackendStorage(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := ctrl.Repository.BackendStorageRepo.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Backend storage not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Backend Storage] Failed to get %d: %v", id, err)
		utils.JSON500(c, "Failed to delete backend storage")
		return
	}

	if err := ctrl.Repository.BackendStorageRepo.Delete(id); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Backend Storage] Failed to delete %d: %v", id, err)
		utils.JSON500(c, "Failed to delete backend storage")
		return
	}
	utils.JSON200(c, gin.H{"deleted": id})
}

// TestBackendStorage reads the bucket credentials from Vault and probes the
// S3 endpoint with a write/delete round trip.
func (ctrl *Controller) TestBackendStorage(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	storage, err := ctrl.Repository.BackendStorageRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "Backend storage not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Backend Storage] Failed to get %d: %v", id, err)
		utils.JSON500(c, "Failed to test backend storage")
		return
	}

	secret, err := ctrl.Infra.Vault.ReadSecret(ctx, storage.VaultPath)
	if err != nil {
		if errors.Is(err, infra.ErrVaultNotConfigured) {
			utils.JSON400(c, "Vault is not configured")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Backend Storage] Failed to read credentials from Vault path %q: %v", storage.VaultPath, err)
		utils.JSON400(c, "Failed to read credentials from Vault")
		return
	}

	accessKey, ok := secret[storage.AccessKeyField].(string)
	if !ok || accessKey == "" {
		utils.JSON400(c, fmt.Sprintf("Vault secret is missing field %q", storage.AccessKeyField))
		return
	}
	secretKey, ok := secret[storage.SecretKeyField].(string)
	if !ok || secretKey == "" {
		utils.JSON400(c, fmt.Sprintf("Vault secret is missing field %q", storage.SecretKeyField))
		return
	}

	success, steps := infra.ProbeBackendStorage(ctx, storage.EndpointURL, storage.BucketName, storage.Region, accessKey, secretKey)
	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Backend Storage] Probe of %q finished, success=%t", storage.Name, success)

	utils.JSON200(c, gin.H{
		"success": success,
		"steps":   steps,
	})
}
