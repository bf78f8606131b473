package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/colonia-io/colonia/config"
	"github.com/colonia-io/colonia/http/controller/dto"
	"github.com/colonia-io/colonia/infra"
	"github.com/colonia-io/colonia/utils"
)

// GetVaultConfig returns the saved Vault settings with the token masked.
func (ctrl *Controller) GetVaultConfig(c *gin.Context) {
	ctx := c.Request.Context()

	vault, err := ctrl.Infra.Config.Vault()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vault] Failed to read config: %v", err)
		utils.JSON500(c, "Failed to read Vault config")
		return
	}
	if vault == nil {
		utils.JSON200(c, gin.H{"configured": false})
		return
	}

	utils.JSON200(c, gin.H{
		"configured": true,
		"url":        vault.URL,
		"namespace":  vault.Namespace,
		"token":      maskToken(vault.Token),
	})
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "***********"
	}
	return token[:4] + "***********" + token[len(token)-4:]
}

// SaveVaultConfig verifies the credentials against Vault, then persists them
// to the config file.
func (ctrl *Controller) SaveVaultConfig(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SaveVaultConfigRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vault] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	message, err := ctrl.Infra.Vault.TestConnection(ctx, req.URL, req.Token, req.Namespace)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vault] Connection test failed: %v", err)
		utils.JSON400(c, "Vault connection test failed: "+err.Error())
		return
	}

	if err := ctrl.Infra.Config.SetVault(&config.VaultConfig{
		URL:       req.URL,
		Token:     req.Token,
		Namespace: req.Namespace,
	}); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vault] Failed to save config: %v", err)
		utils.JSON500(c, "Failed to save Vault config")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Vault] Saved config for %s", req.URL)
	utils.JSON200(c, gin.H{"message": message})
}

// TestVaultConnection checks the saved credentials against Vault.
func (ctrl *Controller) TestVaultConnection(c *gin.Context) {
	ctx := c.Request.Context()

	vault, err := ctrl.Infra.Config.Vault()
	if err != nil || vault == nil {
		utils.JSON400(c, "Vault is not configured")
		return
	}

	message, err := ctrl.Infra.Vault.TestConnection(ctx, vault.URL, vault.Token, vault.Namespace)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vault] Connection test failed: %v", err)
		utils.JSON400(c, "Vault connection test failed: "+err.Error())
		return
	}
	utils.JSON200(c, gin.H{"message": message})
}

func (ctrl *Controller) ListSecretsEngines(c *gin.Context) {
	ctx := c.Request.Context()

	mounts, err := ctrl.Infra.Vault.ListSecretsEngines(ctx)
	if err != nil {
		if errors.Is(err, infra.ErrVaultNotConfigured) {
			utils.JSON400(c, "Vault is not configured")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vault] Failed to list secrets engines: %v", err)
		utils.JSON500(c, "Failed to list secrets engines")
		return
	}
	utils.JSON200(c, mounts)
}

func (ctrl *Controller) EnableSecretsEngine(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.EnableSecretsEngineRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vault] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	engineType := req.Type
	if engineType == "" {
		engineType = "kv-v2"
	}

	if err := ctrl.Infra.Vault.EnableSecretsEngine(ctx, req.Path, engineType, "Enabled from Colonia console"); err != nil {
		if errors.Is(err, infra.ErrVaultNotConfigured) {
			utils.JSON400(c, "Vault is not configured")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vault] Failed to enable secrets engine at %q: %v", req.Path, err)
		utils.JSON500(c, "Failed to enable secrets engine")
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Vault] Enabled %s secrets engine at %q", engineType, req.Path)
	utils.JSON200(c, gin.H{"enabled": req.Path})
}
