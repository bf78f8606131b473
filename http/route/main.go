package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/colonia-io/colonia/http/controller"
	middlewares "github.com/colonia-io/colonia/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	r.POST("/api/auth/token", ctrl.IssueToken)

	apiRoutes := r.Group("/api")
	{
		apiRoutes.Use(middles.AuthMiddleware)

		apiRoutes.GET("/stats", ctrl.GetStats)

		projectRoutes := apiRoutes.Group("/projects")
		{
			projectRoutes.POST("/", ctrl.CreateProject)
			projectRoutes.GET("/", ctrl.ListProjects)
			projectRoutes.GET("/:id", ctrl.GetProjectByID)
			projectRoutes.PUT("/:id", ctrl.UpdateProject)
			projectRoutes.DELETE("/:id", ctrl.DeleteProject)
			projectRoutes.POST("/:id/scan", ctrl.TriggerScan)
			projectRoutes.GET("/:id/scans", ctrl.ListScans)
		}

		environmentRoutes := apiRoutes.Group("/environments")
		{
			environmentRoutes.GET("/grouped", ctrl.ListEnvironmentsGrouped)
			environmentRoutes.PUT("/:id/backend", ctrl.AssignBackendStorage)
		}

		stackRoutes := apiRoutes.Group("/stacks")
		{
			stackRoutes.GET("/grouped", ctrl.ListStacksGrouped)
		}

		userRoutes := apiRoutes.Group("/users")
		{
			userRoutes.POST("/", ctrl.CreateUser)
			userRoutes.GET("/", ctrl.ListUsers)
			userRoutes.GET("/:id", ctrl.GetUserByID)
			userRoutes.PUT("/:id", ctrl.UpdateUser)
			userRoutes.DELETE("/:id", ctrl.DeleteUser)
		}

		teamRoutes := apiRoutes.Group("/teams")
		{
			teamRoutes.POST("/", ctrl.CreateTeam)
			teamRoutes.GET("/", ctrl.ListTeams)
			teamRoutes.GET("/:id", ctrl.GetTeamByID)
			teamRoutes.PUT("/:id", ctrl.UpdateTeam)
			teamRoutes.DELETE("/:id", ctrl.DeleteTeam)
			teamRoutes.POST("/:id/members", ctrl.AddTeamMember)
			teamRoutes.DELETE("/:id/members/:member_id", ctrl.RemoveTeamMember)
			teamRoutes.PUT("/:id/permissions", ctrl.SetTeamPermission)
			teamRoutes.DELETE("/:id/permissions/:permission_id", ctrl.DeleteTeamPermission)
		}

		contextRoutes := apiRoutes.Group("/contexts")
		{
			contextRoutes.POST("/", ctrl.CreateContext)
			contextRoutes.GET("/", ctrl.ListContexts)
			contextRoutes.GET("/:id", ctrl.GetContextByID)
			contextRoutes.PUT("/:id", ctrl.UpdateContext)
			contextRoutes.DELETE("/:id", ctrl.DeleteContext)
			contextRoutes.POST("/:id/secrets", ctrl.AddContextSecret)
			contextRoutes.DELETE("/:id/secrets/:secret_id", ctrl.DeleteContextSecret)
			contextRoutes.POST("/:id/env-vars", ctrl.AddContextEnvVar)
			contextRoutes.DELETE("/:id/env-vars/:env_var_id", ctrl.DeleteContextEnvVar)
			contextRoutes.POST("/:id/attach", ctrl.AttachContext)
			contextRoutes.POST("/:id/detach", ctrl.DetachContext)
		}

		vaultRoutes := apiRoutes.Group("/vault")
		{
			vaultRoutes.GET("/config", ctrl.GetVaultConfig)
			vaultRoutes.PUT("/config", ctrl.SaveVaultConfig)
			vaultRoutes.POST("/test", ctrl.TestVaultConnection)
			vaultRoutes.GET("/engines", ctrl.ListSecretsEngines)
			vaultRoutes.POST("/engines", ctrl.EnableSecretsEngine)
		}

		storageRoutes := apiRoutes.Group("/backend-storages")
		{
			storageRoutes.POST("/", ctrl.CreateBackendStorage)
			storageRoutes.GET("/", ctrl.ListBackendStorages)
			storageRoutes.GET("/:id", ctrl.GetBackendStorageByID)
			storageRoutes.PUT("/:id", ctrl.UpdateBackendStorage)
			storageRoutes.DELETE("/:id", ctrl.DeleteBackendStorage)
			storageRoutes.POST("/:id/test", ctrl.TestBackendStorage)
		}
	}
	return r
}
