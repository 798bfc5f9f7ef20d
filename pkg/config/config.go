package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string // empty means no remote store; the app runs local-only
	Port         string
	IsProduction bool
	DataDir      string // root directory of the local cache

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RemoteTimeout time.Duration // client-side bound on any remote store call

	KafkaBrokers []string // empty means no event publishing

	GeminiAPIKey string // empty disables the smart-entry assist
	GeminiAPIURL string

	FrontendBaseURL string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "168h")
	viper.SetDefault("JWT_ISSUER", "baki-khata-app")
	viper.SetDefault("REMOTE_TIMEOUT", "10s")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("PGSQL_URL not set; running without a remote store.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.DataDir = viper.GetString("DATA_DIR")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		log.Printf("Warning: Invalid JWT_EXPIRY_DURATION ('%s'). Defaulting to 168h.\n", viper.GetString("JWT_EXPIRY_DURATION"))
		jwtExpiry = 168 * time.Hour
	}
	cfg.JWTExpiryDuration = jwtExpiry

	remoteTimeout, err := time.ParseDuration(viper.GetString("REMOTE_TIMEOUT"))
	if err != nil {
		log.Printf("Warning: Invalid REMOTE_TIMEOUT ('%s'). Defaulting to 10s.\n", viper.GetString("REMOTE_TIMEOUT"))
		remoteTimeout = 10 * time.Second
	}
	cfg.RemoteTimeout = remoteTimeout

	if brokers := viper.GetString("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	cfg.GeminiAPIKey = viper.GetString("GEMINI_API_KEY")
	cfg.GeminiAPIURL = viper.GetString("GEMINI_API_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	return cfg, nil
}
