package infra

import (
	"fmt"
	"log"

	"github.com/colonia-io/colonia/config"
	"github.com/colonia-io/colonia/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type PostgresClient struct {
	DB *gorm.DB
}

func InitPostgresClient(cfg *config.EnvConfig) *PostgresClient {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Postgres.Host,
		cfg.Postgres.Username,
		cfg.Postgres.Password,
		cfg.Postgres.Database,
		cfg.Postgres.Port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Postgres connection failed: %v", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Fatalf("Postgres migration failed: %v", err)
	}

	log.Println("Connected to Postgres:", cfg.Postgres.Host+":"+cfg.Postgres.Port)

	return &PostgresClient{DB: db}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Project{},
		&entity.Environment{},
		&entity.Stack{},
		&entity.StackEnvironment{},
		&entity.StackDependency{},
		&entity.RepoScan{},
		&entity.Context{},
		&entity.ContextSecret{},
		&entity.ContextEnvVar{},
		&entity.ContextEnvironment{},
		&entity.ContextStack{},
		&entity.User{},
		&entity.Team{},
		&entity.TeamMember{},
		&entity.TeamPermission{},
		&entity.BackendStorage{},
	)
}
