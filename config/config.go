package config

import (
	"log"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	AppPort   string `env:"APP_PORT" envDefault:"8000"`
	GinMode   string `env:"GIN_MODE" envDefault:"release"`
	JWTSecret string `env:"JWT_SECRET"`
	// Access tokens expire this many minutes after issuance.
	TokenTTLMinutes int `env:"TOKEN_TTL_MINUTES" envDefault:"60"`

	// Database: sqlite (default) or mysql. For sqlite DatabaseURI is the db
	// file path; for mysql it is a DSN.
	DBDriver    string `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseURI string `env:"DATABASE_URI" envDefault:"app.db"`

	// Upload storage
	UploadDir          string `env:"UPLOAD_DIR" envDefault:"uploads"`
	UploadMaxSizeMB    int    `env:"UPLOAD_MAX_SIZE_MB" envDefault:"50"`
	OrphanSweepMinutes int    `env:"ORPHAN_SWEEP_MINUTES" envDefault:"5"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173"`

	// Logging configuration
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath       string `env:"LOG_PATH"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"7"`
	LogCompress   bool   `env:"LOG_COMPRESS"`
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration from the environment. It should be
// called once during boot. A .env file in the working directory is applied
// first when present.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("failed to load .env file: %v", err)
		}
	}

	cfg = AppConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse configuration from environment: %v", err)
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}
