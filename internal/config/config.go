package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	DefaultDatabasePath = "instance/books.db"
	DefaultSecretKey    = "dev-secret"
)

type Config struct {
	GinMode      string
	Addr         string
	LogLevel     string
	DatabasePath string
	SecretKey    string
}

// findEnvFile walks up from the working directory looking for name.
func findEnvFile(name string) (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func Load() *Config {
	if getenv("GIN_MODE", "debug") == "debug" {
		if envPath, ok := findEnvFile(".env"); ok {
			if err := godotenv.Load(envPath); err != nil {
				log.Warn().Err(err).Str("path", envPath).Msg("could not load env file")
			} else {
				log.Debug().Str("path", envPath).Msg("loaded env file")
			}
		}
	}

	return &Config{
		GinMode:      getenv("GIN_MODE", "debug"),
		Addr:         getenv("HTTP_ADDR", ":5000"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		DatabasePath: getenv("BOOKS_DB", DefaultDatabasePath),
		SecretKey:    getenv("BOOKS_SECRET", DefaultSecretKey),
	}
}

// InsecureSecret reports whether the flash signing key is still the
// development default.
func (c *Config) InsecureSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
