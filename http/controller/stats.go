package controller

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/colonia-io/colonia/infra"
	"github.com/colonia-io/colonia/utils"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 30 * time.Second
)

type dashboardStats struct {
	Projects     int64 `json:"projects"`
	Environments int64 `json:"environments"`
	Stacks       int64 `json:"stacks"`
	Contexts     int64 `json:"contexts"`
	Users        int64 `json:"users"`
	Teams        int64 `json:"teams"`
}

// GetStats returns dashboard totals, cached in Redis for a short window so the
// console landing page does not hammer Postgres.
func (ctrl *Controller) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	var cached dashboardStats
	err := ctrl.Infra.Redis.Get(ctx, statsCacheKey, &cached)
	if err == nil {
		utils.JSON200(c, cached)
		return
	}
	if !errors.Is(err, infra.ErrCacheMiss) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Stats] Cache read failed, falling back to database: %v", err)
	}

	var stats dashboardStats
	counts := []struct {
		dest  *int64
		count func() (int64, error)
	}{
		{&stats.Projects, ctrl.Repository.ProjectRepo.Count},
		{&stats.Environments, ctrl.Repository.EnvironmentRepo.Count},
		{&stats.Stacks, ctrl.Repository.StackRepo.Count},
		{&stats.Contexts, ctrl.Repository.ContextRepo.Count},
		{&stats.Users, ctrl.Repository.UserRepo.Count},
		{&stats.Teams, ctrl.Repository.TeamRepo.Count},
	}
	for _, item := range counts {
		n, err := item.count()
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Stats] Failed to count: %v", err)
			utils.JSON500(c, "Failed to compute stats")
			return
		}
		*item.dest = n
	}

	if err := ctrl.Infra.Redis.Set(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Stats] Cache write failed: %v", err)
	}

	utils.JSON200(c, stats)
}

func (ctrl *Controller) invalidateStatsCache(c *gin.Context) {
	ctx := c.Request.Context()
	if err := ctrl.Infra.Redis.Delete(ctx, statsCacheKey); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Stats] Cache invalidation failed: %v", err)
	}
}
