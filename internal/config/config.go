package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// Config holds the settings shared by every front-end.
type Config struct {
	// Remote endpoints
	AuthURL     string `env:"AUTH_URL,required,notEmpty"`
	GenerateURL string `env:"GENERATE_URL" envDefault:"https://functions.poehali.dev/5baace72-d29f-474b-9400-53f1b555f8bb"`
	PaymentURL  string `env:"PAYMENT_URL,required,notEmpty"`

	// Outbound timeouts
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	GenerateTimeout time.Duration `env:"GENERATE_TIMEOUT" envDefault:"90s"`

	// Pro offer shown next to the upgrade action
	PremiumPrice decimal.Decimal `env:"PREMIUM_PRICE" envDefault:"9.99"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// BotConfig extends Config with the Telegram front-end settings.
type BotConfig struct {
	Config

	BotToken    string `env:"BOT_TOKEN,required,notEmpty"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// Optional: relay quota refresh notifications between bot replicas
	RedisURL string `env:"REDIS_URL"`

	// Ops server (metrics, health)
	Port int `env:"PORT" envDefault:"3000"`

	RateLimitPerMinute int  `env:"RATE_LIMIT_PER_MINUTE" envDefault:"6"`
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`
}

// CLIConfig extends Config with the terminal front-end settings.
type CLIConfig struct {
	Config

	// Empty means session.DefaultFilePath()
	SessionFile string `env:"CODEGEN_SESSION_FILE"`
}

func LoadBot() (*BotConfig, error) {
	cfg := &BotConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse bot config: %w", err)
	}
	return cfg, nil
}

func LoadCLI() (*CLIConfig, error) {
	cfg := &CLIConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse cli config: %w", err)
	}
	return cfg, nil
}

// PremiumPriceString renders the Pro price for display, e.g. "$9.99".
func (c *Config) PremiumPriceString() string {
	return "$" + c.PremiumPrice.StringFixed(2)
}
