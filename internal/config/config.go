package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mohammeder55/CS50-finance/internal/domain"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type QuoteConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	FreshnessHours int    `mapstructure:"freshness_hours"`
}

type AppSubConfig struct {
	// StartingCash is the grant in dollars (e.g. 10000.00); when set it
	// takes precedence over StartingCashCents.
	StartingCash      float64 `mapstructure:"starting_cash"`
	StartingCashCents int64   `mapstructure:"starting_cash_cents"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Quote    QuoteConfig    `mapstructure:"quote"`
	App      AppSubConfig   `mapstructure:"app"`
}

var (
	appConfig *Config
	loadErr   error
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working
// directory. The result (including a failure) is latched; later calls
// return the same outcome.
func Load(path string) (*Config, error) {
	once.Do(func() {
		appConfig, loadErr = load(path)
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return appConfig, nil
}

func load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. FIN_QUOTE_API_KEY=pk_xxx; the
	// replacer maps nested keys like quote.api_key onto QUOTE_API_KEY
	v.SetEnvPrefix("FIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("quote.base_url", "https://cloud-sse.iexapis.com/stable")
	v.SetDefault("quote.api_key", "")
	v.SetDefault("quote.timeout_seconds", 10)
	v.SetDefault("quote.freshness_hours", 24)
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("app.starting_cash_cents", 1_000_000) // $10,000.00

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if c.App.StartingCash != 0 {
		cents, err := domain.DollarsToCents(c.App.StartingCash)
		if err != nil {
			return nil, fmt.Errorf("app.starting_cash: %w", err)
		}
		c.App.StartingCashCents = cents
	}

	return &c, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
