package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	JWTKey    string
	SaltRound int

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	SendGridKey string
	EmailSender string
	SenderName  string

	SpacesKey      string
	SpacesSecret   string
	SpacesBucket   string
	SpacesRegion   string
	SpacesEndpoint string
	SpacesCDNURL   string
}

// Load initializes configuration from environment variables or defaults
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := &Config{
		Port:      getEnv("PORT", "7000"),
		Env:       getEnv("APP_ENV", "development"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "coursehub"),
		DBPort:     getEnv("DB_PORT", "5432"),

		SendGridKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender: getEnv("EMAIL_SENDER", "onboarding@coursehub.dev"),
		SenderName:  getEnv("EMAIL_SENDER_NAME", "CourseHub"),

		SpacesKey:      getEnv("SPACES_ACCESS_KEY", ""),
		SpacesSecret:   getEnv("SPACES_SECRET_KEY", ""),
		SpacesBucket:   getEnv("SPACES_BUCKET", "coursehub-media"),
		SpacesRegion:   getEnv("SPACES_REGION", "nyc3"),
		SpacesEndpoint: getEnv("SPACES_ENDPOINT", "nyc3.digitaloceanspaces.com"),
		SpacesCDNURL:   getEnv("SPACES_CDN_URL", ""),
	}

	// Validate critical configuration
	if cfg.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if cfg.SendGridKey == "" {
		log.Println("Warning: SENDGRID_API_KEY is not set. OTP emails will fail to send.")
	}

	return cfg
}

// IsProduction reports whether the app runs with production settings
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
