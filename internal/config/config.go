package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	TokenTTL               time.Duration
	BcryptCost             int
	StatsCacheTTL          time.Duration
	NotificationStream     string
	NotificationSubject    string
	BootstrapAdminName     string
	BootstrapAdminEmail    string
	BootstrapAdminPassword string
	BootstrapAgentName     string
	BootstrapAgentEmail    string
	BootstrapAgentPassword string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("NEXUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Nexus Loop API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("bcrypt.cost", 10)
	v.SetDefault("stats.cache_ttl", "5m")
	v.SetDefault("notification.stream", "loops:notifications")
	v.SetDefault("notification.subject", "loops.notifications")
	v.SetDefault("bootstrap.admin_name", "Admin User")
	v.SetDefault("bootstrap.admin_email", "admin@nexusrealtync.co")
	v.SetDefault("bootstrap.agent_name", "Agent Smith")
	v.SetDefault("bootstrap.agent_email", "agent@nexusrealtync.co")

	tokenTTL, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	statsTTL, err := time.ParseDuration(v.GetString("stats.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid stats cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		TokenTTL:               tokenTTL,
		BcryptCost:             v.GetInt("bcrypt.cost"),
		StatsCacheTTL:          statsTTL,
		NotificationStream:     v.GetString("notification.stream"),
		NotificationSubject:    v.GetString("notification.subject"),
		BootstrapAdminName:     v.GetString("bootstrap.admin_name"),
		BootstrapAdminEmail:    v.GetString("bootstrap.admin_email"),
		BootstrapAdminPassword: v.GetString("bootstrap.admin_password"),
		BootstrapAgentName:     v.GetString("bootstrap.agent_name"),
		BootstrapAgentEmail:    v.GetString("bootstrap.agent_email"),
		BootstrapAgentPassword: v.GetString("bootstrap.agent_password"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = 10
	}

	return cfg, nil
}
