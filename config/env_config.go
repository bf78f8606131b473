package config

import (
	"os"
	"strconv"
	"strings"
)

type EnvConfig struct {
	Postgres struct {
		Host     string
		Database string
		Username string
		Password string
		Port     string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
		Database int
	}
	RabbitMQ struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	JWT struct {
		SecretKey string
		Expire    int
	}
	CORS struct {
		AllowDomains string
	}
	Scan struct {
		FetchTimeout int    // seconds per manifest fetch
		LockTTL      int    // seconds a per-project scan lock is held
		ManifestFile string // well-known manifest path at the repository root
	}
	Grafana struct {
		OTLPEndpoint string
		ServiceName  string
	}
	Environment struct {
		Mode string
	}
	ConfigFilePath string
}

func LoadEnvConfig() *EnvConfig {
	var config EnvConfig

	// Postgres
	config.Postgres.Host = os.Getenv("POSTGRES_HOST")
	if config.Postgres.Host == "" {
		config.Postgres.Host = "localhost"
	}
	config.Postgres.Port = os.Getenv("POSTGRES_PORT")
	if config.Postgres.Port == "" {
		config.Postgres.Port = "5432"
	}
	config.Postgres.Database = os.Getenv("POSTGRES_DB")
	if config.Postgres.Database == "" {
		config.Postgres.Database = "colonia"
	}
	config.Postgres.Username = os.Getenv("POSTGRES_USER")
	if config.Postgres.Username == "" {
		config.Postgres.Username = "colonia"
	}
	config.Postgres.Password = os.Getenv("POSTGRES_PASSWORD")

	// Redis
	config.Redis.Host = os.Getenv("REDIS_HOST")
	if config.Redis.Host == "" {
		config.Redis.Host = "localhost"
	}
	config.Redis.Port = os.Getenv("REDIS_PORT")
	if config.Redis.Port == "" {
		config.Redis.Port = "6379"
	}
	config.Redis.Password = os.Getenv("REDIS_PASSWORD")
	config.Redis.Database, _ = strconv.Atoi(os.Getenv("REDIS_DB"))

	// RabbitMQ
	config.RabbitMQ.Host = os.Getenv("RABBITMQ_HOST")
	if config.RabbitMQ.Host == "" {
		config.RabbitMQ.Host = "localhost"
	}
	config.RabbitMQ.Port = os.Getenv("RABBITMQ_PORT")
	if config.RabbitMQ.Port == "" {
		config.RabbitMQ.Port = "5672"
	}
	config.RabbitMQ.Username = os.Getenv("RABBITMQ_USER")
	if config.RabbitMQ.Username == "" {
		config.RabbitMQ.Username = "colonia"
	}
	config.RabbitMQ.Password = os.Getenv("RABBITMQ_PASS")
	if config.RabbitMQ.Password == "" {
		config.RabbitMQ.Password = "colonia"
	}

	// JWT: auth middleware is enabled only when a secret is configured
	config.JWT.SecretKey = os.Getenv("JWT_SECRET_KEY")
	if val := os.Getenv("JWT_EXPIRE"); val != "" {
		config.JWT.Expire, _ = strconv.Atoi(val)
	}
	if config.JWT.Expire == 0 {
		config.JWT.Expire = 3600 * 24 * 7
	}

	config.CORS.AllowDomains = os.Getenv("ALLOWED_DOMAINS")

	// Repository scan
	if val := os.Getenv("SCAN_FETCH_TIMEOUT"); val != "" {
		config.Scan.FetchTimeout, _ = strconv.Atoi(val)
	}
	if config.Scan.FetchTimeout == 0 {
		config.Scan.FetchTimeout = 10
	}
	if val := os.Getenv("SCAN_LOCK_TTL"); val != "" {
		config.Scan.LockTTL, _ = strconv.Atoi(val)
	}
	if config.Scan.LockTTL == 0 {
		config.Scan.LockTTL = 120
	}
	config.Scan.ManifestFile = os.Getenv("SCAN_MANIFEST_FILE")
	if config.Scan.ManifestFile == "" {
		config.Scan.ManifestFile = "colonia.yaml"
	}

	// Grafana/OpenTelemetry
	grafanaEndpoint := os.Getenv("GRAFANA_OTLP_ENDPOINT")
	if strings.HasPrefix(grafanaEndpoint, "https://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "https://")
	} else if strings.HasPrefix(grafanaEndpoint, "http://") {
		config.Grafana.OTLPEndpoint = strings.TrimPrefix(grafanaEndpoint, "http://")
	} else {
		config.Grafana.OTLPEndpoint = grafanaEndpoint
	}
	config.Grafana.ServiceName = os.Getenv("SERVICE_NAME")
	if config.Grafana.ServiceName == "" {
		config.Grafana.ServiceName = "colonia-console"
	}

	config.Environment.Mode = os.Getenv("DEPLOY_ENV")
	if config.Environment.Mode == "" {
		config.Environment.Mode = "development"
	}

	config.ConfigFilePath = os.Getenv("COLONIA_CONFIG_FILE")
	if config.ConfigFilePath == "" {
		config.ConfigFilePath = "/usr/local/etc/colonia/config.yml"
	}

	return &config
}
