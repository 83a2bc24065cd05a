// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"opledger/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort  string
	AuthAPIURL  string        // external identity-resolution endpoint
	AuthTimeout time.Duration // timeout for calls to the identity service
	DB          db.Config
}

// LoadConfig loads configuration from environment variables.
// It returns an AppConfig instance or an error if any required variable is missing or invalid.
func LoadConfig() (*AppConfig, error) {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080" // Default port
	}

	authAPIURL := os.Getenv("AUTH_API_URL")
	if authAPIURL == "" {
		return nil, fmt.Errorf("AUTH_API_URL is required")
	}

	authTimeoutStr := os.Getenv("AUTH_TIMEOUT_SECONDS")
	if authTimeoutStr == "" {
		authTimeoutStr = "10"
	}
	authTimeoutSec, err := strconv.Atoi(authTimeoutStr)
	if err != nil || authTimeoutSec <= 0 {
		return nil, fmt.Errorf("invalid AUTH_TIMEOUT_SECONDS: %q", authTimeoutStr)
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost" // Default to localhost for local development
	}
	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		dbPortStr = "5432" // Default PostgreSQL port
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "user"
	}
	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		dbPassword = "password"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "opledgerdb"
	}
	dbSSLMode := os.Getenv("DB_SSLMODE")
	if dbSSLMode == "" {
		dbSSLMode = "disable"
	}

	return &AppConfig{
		ServerPort:  serverPort,
		AuthAPIURL:  authAPIURL,
		AuthTimeout: time.Duration(authTimeoutSec) * time.Second,
		DB: db.Config{
			Host:     dbHost,
			Port:     dbPort,
			User:     dbUser,
			Password: dbPassword,
			DBName:   dbName,
			SSLMode:  dbSSLMode,
		},
	}, nil
}
