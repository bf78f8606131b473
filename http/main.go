package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/colonia-io/colonia/config"
	"github.com/colonia-io/colonia/http/controller"
	routes "github.com/colonia-io/colonia/http/route"
	infraPkg "github.com/colonia-io/colonia/infra"
	"github.com/colonia-io/colonia/repository"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)
	infraPkg.InitTelemetry(cfg.EnvConfig)

	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	log.Println("HTTP Server started on :8080")
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
