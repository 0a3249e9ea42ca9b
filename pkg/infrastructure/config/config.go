package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Log        LogConfig
	Planning   PlanningConfig
	Purchasing PurchasingConfig
	Auth       AuthConfig
	HTTP       HTTPConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// PlanningConfig holds the default planning factors, all in percent
type PlanningConfig struct {
	LossPercent             decimal.Decimal
	MarkerEfficiencyPercent decimal.Decimal
	SafetyStockPercent      decimal.Decimal
	SafetyBufferPercent     decimal.Decimal
	ExtraCuttingPercent     decimal.Decimal
}

// PurchasingConfig holds purchase order defaults
type PurchasingConfig struct {
	Currency       string
	TaxRate        decimal.Decimal
	TaxEnabled     bool
	PONumberPrefix string
	DeliveryDays   int
}

// AuthConfig holds token signing settings
type AuthConfig struct {
	Secret   string
	Issuer   string
	TokenTTL time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads configuration. Priority, highest first:
// 1. environment variables with the GMRP_ prefix (GMRP_PLANNING_LOSS_PERCENT)
// 2. the file at path, or garmentmrp.yaml in the working directory
// 3. built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("garmentmrp")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("GMRP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return build(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("planning.loss_percent", "3")
	v.SetDefault("planning.marker_efficiency_percent", "90")
	v.SetDefault("planning.safety_stock_percent", "5")
	v.SetDefault("planning.safety_buffer_percent", "5")
	v.SetDefault("planning.extra_cutting_percent", "3")
	v.SetDefault("purchasing.tax_rate", "0")
	v.SetDefault("purchasing.tax_enabled", false)
}

func build(v *viper.Viper) (*Config, error) {
	var errs []error
	dec := func(key string) decimal.Decimal {
		raw := strings.TrimSpace(v.GetString(key))
		if raw == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a number", key, raw))
			return decimal.Zero
		}
		return d
	}

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Planning: PlanningConfig{
			LossPercent:             dec("planning.loss_percent"),
			MarkerEfficiencyPercent: dec("planning.marker_efficiency_percent"),
			SafetyStockPercent:      dec("planning.safety_stock_percent"),
			SafetyBufferPercent:     dec("planning.safety_buffer_percent"),
			ExtraCuttingPercent:     dec("planning.extra_cutting_percent"),
		},
		Purchasing: PurchasingConfig{
			Currency:       v.GetString("purchasing.currency"),
			TaxRate:        dec("purchasing.tax_rate"),
			TaxEnabled:     v.GetBool("purchasing.tax_enabled"),
			PONumberPrefix: v.GetString("purchasing.po_number_prefix"),
			DeliveryDays:   v.GetInt("purchasing.delivery_days"),
		},
		Auth: AuthConfig{
			Secret:   v.GetString("auth.secret"),
			Issuer:   v.GetString("auth.issuer"),
			TokenTTL: v.GetDuration("auth.token_ttl"),
		},
		HTTP: HTTPConfig{
			Addr:         v.GetString("http.addr"),
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
		},
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is configured
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := build(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "garmentmrp"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Purchasing.Currency == "" {
		cfg.Purchasing.Currency = "USD"
	}
	if cfg.Purchasing.PONumberPrefix == "" {
		cfg.Purchasing.PONumberPrefix = "PO"
	}
	if cfg.Purchasing.DeliveryDays == 0 {
		cfg.Purchasing.DeliveryDays = 30
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "garmentmrp"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 8 * time.Hour
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
}

func (c *Config) validate() error {
	percents := map[string]decimal.Decimal{
		"planning.loss_percent":              c.Planning.LossPercent,
		"planning.marker_efficiency_percent": c.Planning.MarkerEfficiencyPercent,
		"planning.safety_stock_percent":      c.Planning.SafetyStockPercent,
		"planning.safety_buffer_percent":     c.Planning.SafetyBufferPercent,
		"planning.extra_cutting_percent":     c.Planning.ExtraCuttingPercent,
		"purchasing.tax_rate":                c.Purchasing.TaxRate,
	}
	for key, value := range percents {
		if value.IsNegative() {
			return fmt.Errorf("%s cannot be negative, got %s", key, value)
		}
	}
	if c.Planning.MarkerEfficiencyPercent.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("planning.marker_efficiency_percent cannot exceed 100, got %s", c.Planning.MarkerEfficiencyPercent)
	}
	if c.App.Env == "production" && len(c.Auth.Secret) < 32 {
		return fmt.Errorf("auth.secret must be at least 32 characters in production")
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
