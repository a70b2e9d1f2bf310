package config

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get an env var with a fallback. The app runs fully
	// locally, so every setting has a sensible default.
	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME", "squash.db"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "./migrations"),
		Port:          getEnv("PORT", "8080"),
	}
	return cfg
}
