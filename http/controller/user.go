package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/colonia-io/colonia/entity"
	"github.com/colonia-io/colonia/http/controller/dto"
	"github.com/colonia-io/colonia/repository"
	"github.com/colonia-io/colonia/utils"
)

func (ctrl *Controller) CreateUser(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateUserRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	exists, err := ctrl.Repository.UserRepo.ExistsByUsername(req.Username)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Error checking username existence: %v", err)
		utils.JSON500(c, "Failed to create user")
		return
	}
	if exists {
		utils.JSON409(c, "User with this username already exists")
		return
	}

	exists, err = ctrl.Repository.UserRepo.ExistsByEmail(req.Email)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Error checking email existence: %v", err)
		utils.JSON500(c, "Failed to create user")
		return
	}
	if exists {
		utils.JSON409(c, "User with this email already exists")
		return
	}

	user := &entity.User{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
	}
	if err := ctrl.Repository.UserRepo.Create(user); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to create user: %v", err)
		utils.JSON500(c, "Failed to create user")
		return
	}

	ctrl.invalidateStatsCache(c)
	utils.JSON201(c, user)
}

func (ctrl *Controller) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := ctrl.Repository.UserRepo.List()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to list users: %v", err)
		utils.JSON500(c, "Failed to list users")
		return
	}
	utils.JSON200(c, users)
}

func (ctrl *Controller) GetUserByID(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.Repository.UserRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "User not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to get user %d: %v", id, err)
		utils.JSON500(c, "Failed to get user")
		return
	}
	utils.JSON200(c, user)
}

func (ctrl *Controller) UpdateUser(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to bind JSON: %v", err)
		utils.JSON400(c, "Invalid request payload")
		return
	}

	user, err := ctrl.Repository.UserRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "User not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to get user %d: %v", id, err)
		utils.JSON500(c, "Failed to update user")
		return
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}

	if err := ctrl.Repository.UserRepo.Update(user); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to update user %d: %v", id, err)
		utils.JSON500(c, "Failed to update user")
		return
	}
	utils.JSON200(c, user)
}

func (ctrl *Controller) DeleteUser(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := ctrl.Repository.UserRepo.GetByID(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.JSON404(c, "User not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to get user %d: %v", id, err)
		utils.JSON500(c, "Failed to delete user")
		return
	}

	if err := ctrl.Repository.UserRepo.Delete(id); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[User] Failed to delete user %d: %v", id, err)
		utils.JSON500(c, "Failed to delete user")
		return
	}

	ctrl.invalidateStatsCache(c)
	utils.JSON200(c, gin.H{"deleted": id})
}
