package infra

import (
	"github.com/colonia-io/colonia/config"
	"github.com/colonia-io/colonia/infra/produce"
)

type Infra struct {
	Postgres *PostgresClient
	Redis    *RedisClient
	Logger   *LoggerClient
	RabbitMQ *RabbitMQClient
	SCM      *SCMClient
	Vault    *VaultClient
	Produce  *produce.Produce
	Config   *config.FileStore
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	postgres := InitPostgresClient(cfg.EnvConfig)
	if postgres == nil {
		panic("Failed to initialize Postgres service")
	}

	redis := InitRedisClient(cfg.EnvConfig)
	if redis == nil {
		panic("Failed to initialize Redis service")
	}

	logger := InitLoggerClient(cfg.EnvConfig)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	rabbitMQ := InitRabbitMQClient(cfg.EnvConfig)
	if rabbitMQ == nil {
		panic("Failed to initialize RabbitMQ service")
	}

	produceService := produce.InitProduce(rabbitMQ.Channel)
	if produceService == nil {
		panic("Failed to initialize Produce service")
	}

	scm := InitSCMClient(cfg.EnvConfig)
	if scm == nil {
		panic("Failed to initialize SCM service")
	}

	fileStore := config.NewFileStore(cfg.EnvConfig.ConfigFilePath)

	// Vault is optional until an operator saves a config; the client resolves
	// its settings from the file store on every call.
	vault := InitVaultClient(fileStore)

	infraInstance = &Infra{
		Postgres: postgres,
		Redis:    redis,
		Logger:   logger,
		RabbitMQ: rabbitMQ,
		SCM:      scm,
		Vault:    vault,
		Produce:  produceService,
		Config:   fileStore,
	}

	return infraInstance
}

func GetClient() *Infra {
	if infraInstance == nil {
		panic("Infra not initialized. Call InitInfra() first.")
	}
	return infraInstance
}
