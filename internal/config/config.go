package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port         string
	SecretKey    string
	Timezone     string
	CookieSecure bool
	DB           DBConfig
}

type DBConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func Load() Config {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	return Config{
		Port:         getEnvOrDefault("PORT", "8080"),
		SecretKey:    getEnvOrDefault("SECRET_KEY", "change_me_in_production"),
		Timezone:     getEnvOrDefault("TZ", "UTC"),
		CookieSecure: getEnvOrDefault("COOKIE_SECURE", "false") == "true",
		DB: DBConfig{
			Driver:   getEnvOrDefault("DB_DRIVER", DriverSQLite),
			Path:     getEnvOrDefault("DB_PATH", "data/macrolens.db"),
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			Name:     getEnvOrDefault("DB_NAME", "macrolens"),
			SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		},
	}
}

func getEnvOrDefault(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
