// Package config reads the process configuration from the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config is the process configuration.
type Config struct {
	// Port the HTTP API listens on.
	Port string

	// DataDir is the root of the document tree.
	DataDir string

	// BackupDir is where locally created archives live.
	BackupDir string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// take precedence over it.
func Load() Config {
	_ = godotenv.Load()

	dataDir := getenv("DATA_DIR", "data")

	return Config{
		Port:      getenv("PORT", "8080"),
		DataDir:   dataDir,
		BackupDir: getenv("BACKUP_DIR", dataDir+"/backup"),
	}
}

func getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}
