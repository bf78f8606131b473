package middlewares

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/colonia-io/colonia/config"
)

func CORSMiddleware(cfg *config.EnvConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.CORS.AllowDomains == "" || cfg.CORS.AllowDomains == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		var origins []string
		for _, domain := range strings.Split(cfg.CORS.AllowDomains, ",") {
			if domain = strings.TrimSpace(domain); domain != "" {
				origins = append(origins, domain)
			}
		}
		corsConfig.AllowOrigins = origins
	}

	return cors.New(corsConfig)
}
