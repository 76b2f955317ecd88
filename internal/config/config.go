package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	SMTP      SMTPConfig
	Seed      SeedConfig
	Geo       GeoConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	// Path to the SQLite database file. Created on first startup.
	Path string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SeedConfig controls the bootstrap state coordinator account created on an
// empty database, and the default password given to coordinator accounts
// created through assignment.
type SeedConfig struct {
	StateCoordinatorEmail string
	DefaultPassword       string
	LoginURL              string
}

type GeoConfig struct {
	CountiesPath string
	TractsPath   string
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	viper.SetDefault("DB_PATH", "./auth.db")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("SEED_STATE_EMAIL", "jziegenhorn@teamexpansion.org")
	viper.SetDefault("SEED_DEFAULT_PASSWORD", "#NPLIL")
	viper.SetDefault("SEED_LOGIN_URL", "http://localhost:5173")
	viper.SetDefault("GEO_COUNTIES_PATH", "./data/fixed_illinois_counties.geojson")
	viper.SetDefault("GEO_TRACTS_PATH", "./data/fixed_tracts.geojson")

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Path: viper.GetString("DB_PATH"),
		},
		JWT: JWTConfig{
			Secret:      viper.GetString("JWT_SECRET"),
			ExpiryHours: viper.GetInt("JWT_EXPIRY_HOURS"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		Seed: SeedConfig{
			StateCoordinatorEmail: viper.GetString("SEED_STATE_EMAIL"),
			DefaultPassword:       viper.GetString("SEED_DEFAULT_PASSWORD"),
			LoginURL:              viper.GetString("SEED_LOGIN_URL"),
		},
		Geo: GeoConfig{
			CountiesPath: viper.GetString("GEO_COUNTIES_PATH"),
			TractsPath:   viper.GetString("GEO_TRACTS_PATH"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
	}

	return config, nil
}
