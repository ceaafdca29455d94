package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	APIBaseURL       string
	APIKey           string
	AuthToken        string
	FixturePath      string
	EncryptionKeyHex string
	Currency         string
	Locale           string
	IsProduction     bool
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = "USD"
		log.Printf("Warning: CURRENCY environment variable not set. Defaulting to %s\n", currency)
	}

	locale := os.Getenv("LOCALE")
	if locale == "" {
		locale = "en-US"
		log.Printf("Warning: LOCALE environment variable not set. Defaulting to %s\n", locale)
	}

	fixturePath := os.Getenv("FIXTURE_PATH")
	baseURL := os.Getenv("API_BASE_URL")
	if fixturePath == "" && baseURL == "" {
		log.Println("Warning: neither FIXTURE_PATH nor API_BASE_URL is set.")
	}

	keyHex := os.Getenv("ENCRYPTION_KEY")
	if keyHex == "" {
		log.Println("Warning: ENCRYPTION_KEY environment variable not set.")
	}

	// Load IsProduction flag
	isProdStr := os.Getenv("IS_PRODUCTION")
	isProd, err := strconv.ParseBool(isProdStr)
	if err != nil {
		// Default to false if not set or invalid boolean
		isProd = false
		if isProdStr != "" {
			log.Printf("Warning: Invalid value for IS_PRODUCTION ('%s'). Defaulting to false.\n", isProdStr)
		}
	}

	return &Config{
		APIBaseURL:       baseURL,
		APIKey:           os.Getenv("API_KEY"),
		AuthToken:        os.Getenv("AUTH_TOKEN"),
		FixturePath:      fixturePath,
		EncryptionKeyHex: keyHex,
		Currency:         currency,
		Locale:           locale,
		IsProduction:     isProd,
	}, nil
}
