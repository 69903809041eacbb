package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreFile     = "file"
	StoreMemory   = "memory"
)

type Config struct {
	HTTPAddr string `env:"PLAYGATE_HTTP_ADDR" envDefault:":8080"`

	// Record store
	StoreBackend string `env:"PLAYGATE_STORE" envDefault:"sqlite"`
	DBPath       string `env:"PLAYGATE_DB_PATH" envDefault:"./data/playgate.db"`
	PostgresDSN  string `env:"PLAYGATE_POSTGRES_DSN"`
	PlayFilePath string `env:"PLAYGATE_PLAY_FILE" envDefault:"./data/play.json"`

	// Admin gate
	AdminSecret string `env:"PLAYGATE_ADMIN_SECRET"`

	// Entitlement provider
	EntitlementAPIURL  string        `env:"PLAYGATE_ENTITLEMENT_API_URL"`
	EntitlementAPIKey  string        `env:"PLAYGATE_ENTITLEMENT_API_KEY"`
	ProductIDs         []string      `env:"PLAYGATE_PRODUCT_IDS" envSeparator:","`
	UserTokenPublicKey string        `env:"PLAYGATE_USER_TOKEN_PUBLIC_KEY"`
	AccessCheckTimeout time.Duration `env:"PLAYGATE_ACCESS_CHECK_TIMEOUT" envDefault:"5s"`

	// Notifications
	ExperienceID  string        `env:"PLAYGATE_EXPERIENCE_ID"`
	NotifyTimeout time.Duration `env:"PLAYGATE_NOTIFY_TIMEOUT" envDefault:"10s"`

	// Slip scanning
	ScanAPIURL  string        `env:"PLAYGATE_SCAN_API_URL" envDefault:"https://api.anthropic.com"`
	ScanAPIKey  string        `env:"PLAYGATE_SCAN_API_KEY"`
	ScanModel   string        `env:"PLAYGATE_SCAN_MODEL" envDefault:"claude-sonnet-4-20250514"`
	ScanTimeout time.Duration `env:"PLAYGATE_SCAN_TIMEOUT" envDefault:"60s"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	switch backend {
	case StoreSQLite, StorePostgres, StoreFile, StoreMemory:
	default:
		// fail-soft: treat unknown as the default backend
		backend = StoreSQLite
	}
	cfg.StoreBackend = backend

	if cfg.StoreBackend == StorePostgres && strings.TrimSpace(cfg.PostgresDSN) == "" {
		return Config{}, fmt.Errorf("PLAYGATE_POSTGRES_DSN is required when PLAYGATE_STORE=postgres")
	}

	products := cfg.ProductIDs[:0]
	for _, p := range cfg.ProductIDs {
		p = strings.TrimSpace(p)
		if p != "" {
			products = append(products, p)
		}
	}
	cfg.ProductIDs = products

	return cfg, nil
}
