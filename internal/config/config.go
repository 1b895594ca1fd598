// Package config provides configuration management.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"landed-cost/internal/errors"
	"landed-cost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `mapstructure:"version"`

	// Server contains HTTP server settings
	Server ServerConfig `mapstructure:"server"`

	// Storage contains persistence settings
	Storage StorageConfig `mapstructure:"storage"`

	// Datasets contains reference dataset settings
	Datasets DatasetConfig `mapstructure:"datasets"`

	// Fees contains the landed-cost fee schedule
	Fees FeeConfig `mapstructure:"fees"`

	// Display contains display-price synthesis settings
	Display DisplayConfig `mapstructure:"display"`

	// RefRate contains reference-rate provider settings
	RefRate RefRateConfig `mapstructure:"refrate"`

	// Batch contains policy batch settings
	Batch BatchConfig `mapstructure:"batch"`

	// Logging contains logging configuration
	Logging logging.Config `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `mapstructure:"addr"`
}

// StorageConfig contains persistence settings
type StorageConfig struct {
	// Backend selects the storage backend (memory, postgres)
	Backend string `mapstructure:"backend"`

	// DatabaseURL is the Postgres connection string
	DatabaseURL string `mapstructure:"database_url"`
}

// DatasetConfig contains reference dataset settings
type DatasetConfig struct {
	// Path points to an HCL dataset file; empty uses the builtin datasets
	Path string `mapstructure:"path"`
}

// FeeConfig is the fee schedule applied by the landed-cost calculator.
// Rates are fractions, amounts are USD.
type FeeConfig struct {
	// MpfRate is the import processing fee rate on declared value
	MpfRate float64 `mapstructure:"mpf_rate"`

	// MpfMinUsd / MpfMaxUsd clamp the import processing fee
	MpfMinUsd float64 `mapstructure:"mpf_min_usd"`
	MpfMaxUsd float64 `mapstructure:"mpf_max_usd"`

	// HmfRate is the harbor maintenance fee rate for ocean freight
	HmfRate float64 `mapstructure:"hmf_rate"`

	// DdpServiceFeeUsd is the flat per-shipment customs clearance fee
	DdpServiceFeeUsd float64 `mapstructure:"ddp_service_fee_usd"`

	// MarketplaceFeeRate is the default final value fee rate
	MarketplaceFeeRate float64 `mapstructure:"marketplace_fee_rate"`

	// PaymentRate and PaymentFixedFeeUsd define the payment processor fee
	PaymentRate        float64 `mapstructure:"payment_rate"`
	PaymentFixedFeeUsd float64 `mapstructure:"payment_fixed_fee_usd"`

	// FxSlippageRate covers currency conversion loss on revenue
	FxSlippageRate float64 `mapstructure:"fx_slippage_rate"`

	// InternationalFeeRate is the cross-border transaction fee rate
	InternationalFeeRate float64 `mapstructure:"international_fee_rate"`

	// VolumetricDivisor converts cm^3 to volumetric kg
	VolumetricDivisor float64 `mapstructure:"volumetric_divisor"`

	// MinProfitUsd is the absolute profit floor below which every offer grades D
	MinProfitUsd float64 `mapstructure:"min_profit_usd"`

	// DefaultFxRate is the JPY per USD rate used when none is supplied
	DefaultFxRate float64 `mapstructure:"default_fx_rate"`
}

// DisplayConfig contains display-price synthesis settings
type DisplayConfig struct {
	// ServiceFeeUsd is the fixed per-shipment fee folded into the margin target
	ServiceFeeUsd float64 `mapstructure:"service_fee_usd"`

	// HandlingFloorUsd / HandlingCeilingUsd bound the raw handling fee
	HandlingFloorUsd   float64 `mapstructure:"handling_floor_usd"`
	HandlingCeilingUsd float64 `mapstructure:"handling_ceiling_usd"`

	// ShippingCeilingMultiple flags displayed shipping above this multiple
	// of the reference total
	ShippingCeilingMultiple float64 `mapstructure:"shipping_ceiling_multiple"`

	// HandlingCeilingShare flags handling above this share of the item price
	HandlingCeilingShare float64 `mapstructure:"handling_ceiling_share"`

	// StrictCompliance clamps instead of flagging when a ceiling is exceeded
	StrictCompliance bool `mapstructure:"strict_compliance"`
}

// RefRateConfig contains reference-rate provider settings
type RefRateConfig struct {
	// SlopeUsdPerKg extends the rate table linearly beyond the top breakpoint
	SlopeUsdPerKg float64 `mapstructure:"slope_usd_per_kg"`

	// CacheTTLSeconds is how long resolved rates stay cached
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// BatchConfig contains policy batch settings
type BatchConfig struct {
	// Concurrency bounds the worker pool; 1 runs strictly sequentially
	Concurrency int `mapstructure:"concurrency"`

	// DdpCountry is the destination sold DDP (all others DDU)
	DdpCountry string `mapstructure:"ddp_country"`
}

// Default returns a default configuration.
// Fee constants follow the published US import fee schedule.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server:  ServerConfig{Addr: ":8080"},
		Storage: StorageConfig{Backend: "memory"},
		Fees: FeeConfig{
			MpfRate:              0.003464,
			MpfMinUsd:            32.71,
			MpfMaxUsd:            634.62,
			HmfRate:              0.00125,
			DdpServiceFeeUsd:     15.00,
			MarketplaceFeeRate:   0.1315,
			PaymentRate:          0.02,
			PaymentFixedFeeUsd:   0.30,
			FxSlippageRate:       0.03,
			InternationalFeeRate: 0.015,
			VolumetricDivisor:    5000,
			MinProfitUsd:         5.00,
			DefaultFxRate:        154.32,
		},
		Display: DisplayConfig{
			ServiceFeeUsd:           15.00,
			HandlingFloorUsd:        1.00,
			HandlingCeilingUsd:      99.95,
			ShippingCeilingMultiple: 2.0,
			HandlingCeilingShare:    0.25,
		},
		RefRate: RefRateConfig{
			SlopeUsdPerKg:   4.50,
			CacheTTLSeconds: 900,
		},
		Batch: BatchConfig{
			Concurrency: 8,
			DdpCountry:  "US",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from an optional file plus LANDED_* environment
// variables, on top of the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LANDED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Config("reading config file", err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Config("unmarshaling config", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("version", d.Version)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.database_url", d.Storage.DatabaseURL)
	v.SetDefault("datasets.path", d.Datasets.Path)
	v.SetDefault("fees.mpf_rate", d.Fees.MpfRate)
	v.SetDefault("fees.mpf_min_usd", d.Fees.MpfMinUsd)
	v.SetDefault("fees.mpf_max_usd", d.Fees.MpfMaxUsd)
	v.SetDefault("fees.hmf_rate", d.Fees.HmfRate)
	v.SetDefault("fees.ddp_service_fee_usd", d.Fees.DdpServiceFeeUsd)
	v.SetDefault("fees.marketplace_fee_rate", d.Fees.MarketplaceFeeRate)
	v.SetDefault("fees.payment_rate", d.Fees.PaymentRate)
	v.SetDefault("fees.payment_fixed_fee_usd", d.Fees.PaymentFixedFeeUsd)
	v.SetDefault("fees.fx_slippage_rate", d.Fees.FxSlippageRate)
	v.SetDefault("fees.international_fee_rate", d.Fees.InternationalFeeRate)
	v.SetDefault("fees.volumetric_divisor", d.Fees.VolumetricDivisor)
	v.SetDefault("fees.min_profit_usd", d.Fees.MinProfitUsd)
	v.SetDefault("fees.default_fx_rate", d.Fees.DefaultFxRate)
	v.SetDefault("display.service_fee_usd", d.Display.ServiceFeeUsd)
	v.SetDefault("display.handling_floor_usd", d.Display.HandlingFloorUsd)
	v.SetDefault("display.handling_ceiling_usd", d.Display.HandlingCeilingUsd)
	v.SetDefault("display.shipping_ceiling_multiple", d.Display.ShippingCeilingMultiple)
	v.SetDefault("display.handling_ceiling_share", d.Display.HandlingCeilingShare)
	v.SetDefault("display.strict_compliance", d.Display.StrictCompliance)
	v.SetDefault("refrate.slope_usd_per_kg", d.RefRate.SlopeUsdPerKg)
	v.SetDefault("refrate.cache_ttl_seconds", d.RefRate.CacheTTLSeconds)
	v.SetDefault("batch.concurrency", d.Batch.Concurrency)
	v.SetDefault("batch.ddp_country", d.Batch.DdpCountry)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}
