// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Scanner    ScannerConfig     `mapstructure:"scanner"`
	Venues     VenuesConfig      `mapstructure:"venues"`
	Logs       LogsConfig        `mapstructure:"logs"`
	Store      StoreConfig       `mapstructure:"store"`
	Supervisor SupervisorConfig  `mapstructure:"supervisor"`
	Telemetry  TelemetryConfig   `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // set at runtime, not from config file
}

// ScannerConfig holds the spec §6 thresholds shared by Stage-0/1/2.
type ScannerConfig struct {
	Min24hVolumeUSDT         float64       `mapstructure:"min_24h_volume_usdt"`
	MinProfitPct             float64       `mapstructure:"min_profit_pct"`
	TargetNetProfitPct       float64       `mapstructure:"target_net_profit_pct"`
	MinExecutionNotionalUSDT float64       `mapstructure:"min_execution_notional_usdt"`
	MaxBookDepthLevels       int           `mapstructure:"max_book_depth_levels"`
	OrderbookDepth           int           `mapstructure:"orderbook_depth"`
	SafetyFeeBufferPct       float64       `mapstructure:"safety_fee_buffer_pct"`
	ExchangeTakerFeesPct     map[string]float64 `mapstructure:"exchange_taker_fees_pct"`

	NormalizePeriod time.Duration `mapstructure:"normalize_period"`
	ScanPeriod      time.Duration `mapstructure:"scan_period"`
	EmptyRetry      time.Duration `mapstructure:"empty_retry"`

	FetchTimeout     time.Duration `mapstructure:"fetch_timeout"`
	SignalQueueDepth int           `mapstructure:"signal_queue_depth"`
}

// MinProfitPctDecimal returns MinProfitPct as a decimal.
func (c *ScannerConfig) MinProfitPctDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitPct)
}

// TargetNetProfitPctDecimal returns TargetNetProfitPct as a decimal.
func (c *ScannerConfig) TargetNetProfitPctDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.TargetNetProfitPct)
}

// MinExecutionNotionalDecimal returns MinExecutionNotionalUSDT as a decimal.
func (c *ScannerConfig) MinExecutionNotionalDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MinExecutionNotionalUSDT)
}

// SafetyFeeBufferPctDecimal returns SafetyFeeBufferPct as a decimal.
func (c *ScannerConfig) SafetyFeeBufferPctDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SafetyFeeBufferPct)
}

// TakerFeesDecimal converts the configured fee table to VenueId-keyed
// decimals for business/depth/app.Config.
func (c *ScannerConfig) TakerFeesDecimal() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(c.ExchangeTakerFeesPct))
	for venue, pct := range c.ExchangeTakerFeesPct {
		out[venue] = decimal.NewFromFloat(pct)
	}
	return out
}

// VenueConfig holds the per-venue rate limit and enable flag.
type VenueConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

// VenuesConfig holds per-venue settings, keyed by VenueId string.
type VenuesConfig struct {
	Binance VenueConfig `mapstructure:"binance"`
	Bybit   VenueConfig `mapstructure:"bybit"`
	OKX     VenueConfig `mapstructure:"okx"`
	Gate    VenueConfig `mapstructure:"gate"`
	KuCoin  VenueConfig `mapstructure:"kucoin"`
}

// LogsConfig holds append-only CSV log file paths (spec §6).
type LogsConfig struct {
	Dir               string `mapstructure:"dir"`
	SpreadSignalFile  string `mapstructure:"spread_signal_file"`
	ConfirmedFile     string `mapstructure:"confirmed_signal_file"`
}

// StoreConfig holds the optional persistent store (spec §6): the core
// pipeline doesn't populate transfer_exchanges/transfer_assets, but creates
// them idempotently when a DSN is configured.
type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

// SupervisorConfig holds the worker restart backoff bounds (spec §9:
// "restarts must be rate-limited... the source does not rate-limit").
type SupervisorConfig struct {
	RestartInitialBackoff time.Duration `mapstructure:"restart_initial_backoff"`
	RestartMaxBackoff     time.Duration `mapstructure:"restart_max_backoff"`
	ShutdownGracePeriod   time.Duration `mapstructure:"shutdown_grace_period"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("SCANNER")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars and defaults.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.name", "SCANNER_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SCANNER_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SCANNER_LOG_LEVEL", "LOG_LEVEL")

	v.BindEnv("scanner.min_24h_volume_usdt", "MIN_24H_VOLUME_USDT")
	v.BindEnv("scanner.min_profit_pct", "MIN_PROFIT_PCT")
	v.BindEnv("scanner.target_net_profit_pct", "TARGET_NET_PROFIT_PCT")
	v.BindEnv("scanner.min_execution_notional_usdt", "MIN_EXECUTION_NOTIONAL_USDT")
	v.BindEnv("scanner.max_book_depth_levels", "MAX_BOOK_DEPTH_LEVELS")
	v.BindEnv("scanner.orderbook_depth", "ORDERBOOK_DEPTH")
	v.BindEnv("scanner.safety_fee_buffer_pct", "SAFETY_FEE_BUFFER_PCT")

	v.BindEnv("store.dsn", "SCANNER_STORE_DSN", "DATABASE_URL")

	v.BindEnv("telemetry.enabled", "SCANNER_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SCANNER_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SCANNER_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "spreadscanner")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("scanner.min_24h_volume_usdt", 100_000.0)
	v.SetDefault("scanner.min_profit_pct", 0.5)
	v.SetDefault("scanner.target_net_profit_pct", 0.2)
	v.SetDefault("scanner.min_execution_notional_usdt", 500.0)
	v.SetDefault("scanner.max_book_depth_levels", 20)
	v.SetDefault("scanner.orderbook_depth", 50)
	v.SetDefault("scanner.safety_fee_buffer_pct", 0.05)
	v.SetDefault("scanner.exchange_taker_fees_pct", map[string]float64{
		"binance": 0.10,
		"bybit":   0.10,
		"okx":     0.10,
		"gate":    0.20,
		"kucoin":  0.10,
	})
	v.SetDefault("scanner.normalize_period", "60s")
	v.SetDefault("scanner.scan_period", "4s")
	v.SetDefault("scanner.empty_retry", "2s")
	v.SetDefault("scanner.fetch_timeout", "8s")
	v.SetDefault("scanner.signal_queue_depth", 256)

	for _, venue := range []string{"binance", "bybit", "okx", "gate", "kucoin"} {
		v.SetDefault("venues."+venue+".enabled", true)
		v.SetDefault("venues."+venue+".requests_per_minute", 1200)
	}

	v.SetDefault("logs.dir", "logs")
	v.SetDefault("logs.spread_signal_file", "spread_signals.csv")
	v.SetDefault("logs.confirmed_signal_file", "confirmed_signals.csv")

	v.SetDefault("supervisor.restart_initial_backoff", "1s")
	v.SetDefault("supervisor.restart_max_backoff", "30s")
	v.SetDefault("supervisor.shutdown_grace_period", "5s")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "spreadscanner")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Scanner.MinProfitPct <= 0 {
		return fmt.Errorf("scanner.min_profit_pct must be positive")
	}
	if c.Scanner.TargetNetProfitPct <= 0 {
		return fmt.Errorf("scanner.target_net_profit_pct must be positive")
	}
	if c.Scanner.MaxBookDepthLevels <= 0 {
		return fmt.Errorf("scanner.max_book_depth_levels must be positive")
	}
	if c.Scanner.OrderbookDepth < c.Scanner.MaxBookDepthLevels {
		return fmt.Errorf("scanner.orderbook_depth must be >= max_book_depth_levels")
	}
	if c.Scanner.SignalQueueDepth <= 0 {
		return fmt.Errorf("scanner.signal_queue_depth must be positive")
	}
	if len(c.Scanner.ExchangeTakerFeesPct) == 0 {
		return fmt.Errorf("scanner.exchange_taker_fees_pct cannot be empty")
	}
	if !c.Venues.Binance.Enabled && !c.Venues.Bybit.Enabled && !c.Venues.OKX.Enabled &&
		!c.Venues.Gate.Enabled && !c.Venues.KuCoin.Enabled {
		return fmt.Errorf("at least one venue must be enabled")
	}
	return nil
}
