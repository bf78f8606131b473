package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/colonia-io/colonia/http/controller/dto"
	"github.com/colonia-io/colonia/repository"
	"github.com/colonia-io/colonia/utils"
)

// IssueToken issues a bearer token for a known username. The console keeps no
// password store; identity is asserted upstream (SSO or a fronting proxy) and
// this endpoint only mints the session token.
func (ctrl *Controller) IssueToken(c *gin.Context) {
	ctx := c.Request.Context()

	if ctrl.Config.EnvConfig.JWT.SecretKey == "" {
		utils.JSON400(c, "Token auth is not enabled")
		return
	}

	var req dto.IssueTokenRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	user, err := ctrl.Repository.UserRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "User not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to get user %q: %v", req.Username, err)
		utils.JSON500(c, "Failed to issue token")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, false, ctrl.Config.EnvConfig)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to generate token for user %q: %v", user.Username, err)
		utils.JSON500(c, "Failed to issue token")
		return
	}

	utils.JSON200(c, gin.H{
		"access_token": token,
		"user":         user,
	})
}
