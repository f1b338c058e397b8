package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var envOnce sync.Once

// LoadEnv loads a .env file from the current or the parent directory, once
// per process. Variables already set in the environment are kept. It
// returns the file that was loaded, or "" when none was found.
func LoadEnv() string {
	var loaded string
	envOnce.Do(func() {
		loaded = loadEnvFile(".env", filepath.Join("..", ".env"))
	})
	return loaded
}

func loadEnvFile(candidates ...string) string {
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			logrus.Warnf("Error loading %s: %v", envFile, err)
			return ""
		}
		logrus.Debugf("Loaded environment variables from %s", envFile)
		return envFile
	}
	return ""
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
