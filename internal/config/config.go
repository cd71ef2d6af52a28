package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Export        ExportConfig        `yaml:"export"`
	Observability ObservabilityConfig `yaml:"observability"`
	Feedback      FeedbackConfig      `yaml:"feedback"`
}

type ServerConfig struct {
	Port           int    `yaml:"port" env:"CAPTAINHUB_PORT"`
	StaticDir      string `yaml:"static_dir" env:"CAPTAINHUB_STATIC_DIR"`
	AllowedOrigins string `yaml:"allowed_origins" env:"CAPTAINHUB_ALLOWED_ORIGINS"`
}

// StorageConfig selects the blob store engine: memory, json, sqlite, postgres or redis
type StorageConfig struct {
	Engine        string `yaml:"engine" env:"CAPTAINHUB_STORAGE_ENGINE"`
	Path          string `yaml:"path" env:"CAPTAINHUB_STORAGE_PATH"`
	DSN           string `yaml:"dsn" env:"CAPTAINHUB_DATABASE_DSN"`
	RedisAddr     string `yaml:"redis_addr" env:"CAPTAINHUB_REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"CAPTAINHUB_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"CAPTAINHUB_REDIS_DB"`
	RedisPrefix   string `yaml:"redis_prefix" env:"CAPTAINHUB_REDIS_PREFIX"`
	Key           string `yaml:"key" env:"CAPTAINHUB_STORAGE_KEY"`
}

// ExportConfig controls where archived backups go. A bucket selects S3,
// otherwise backups are written to Dir.
type ExportConfig struct {
	Dir            string        `yaml:"dir" env:"CAPTAINHUB_EXPORT_DIR"`
	Bucket         string        `yaml:"bucket" env:"CAPTAINHUB_S3_BUCKET"`
	Endpoint       string        `yaml:"endpoint" env:"CAPTAINHUB_S3_ENDPOINT"`
	Region         string        `yaml:"region" env:"CAPTAINHUB_S3_REGION"`
	AccessKeyID    string        `yaml:"access_key_id" env:"CAPTAINHUB_S3_ACCESS_KEY_ID"`
	SecretKey      string        `yaml:"secret_access_key" env:"CAPTAINHUB_S3_SECRET_ACCESS_KEY"`
	Prefix         string        `yaml:"prefix" env:"CAPTAINHUB_S3_PREFIX"`
	BackupInterval time.Duration `yaml:"backup_interval" env:"CAPTAINHUB_BACKUP_INTERVAL"`
}

type ObservabilityConfig struct {
	AuditEnabled bool   `yaml:"audit_enabled" env:"CAPTAINHUB_AUDIT_ENABLED"`
	AuditPath    string `yaml:"audit_path" env:"CAPTAINHUB_AUDIT_PATH"`
	MaxRecent    int    `yaml:"max_recent" env:"CAPTAINHUB_AUDIT_MAX_RECENT"`
}

type FeedbackConfig struct {
	Locale string `yaml:"locale" env:"CAPTAINHUB_LOCALE"`
}

// Load reads a YAML config file over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with any CAPTAINHUB_* variables that are set
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			StaticDir:      "./web",
			AllowedOrigins: "*",
		},
		Storage: StorageConfig{
			Engine:      "sqlite",
			Path:        "./data/captainhub.db",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "captainhub:",
			Key:         "olympicCaptainHubData",
		},
		Export: ExportConfig{
			Dir:    "./backups",
			Region: "auto",
		},
		Observability: ObservabilityConfig{
			AuditEnabled: true,
			AuditPath:    "./logs/audit.log",
			MaxRecent:    100,
		},
		Feedback: FeedbackConfig{Locale: "it"},
	}
}
