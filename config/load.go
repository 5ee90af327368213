package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrConfiguration 表示配置文件无法读取、解析或未通过校验。
var ErrConfiguration = errors.New("invalid configuration")

// EnvPrefix 为环境变量覆盖的统一前缀。
const EnvPrefix = "TRADER_"

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env          string                      `yaml:"env" toml:"env" env:"ENV"`
	Log          LogConfig                   `yaml:"log" toml:"log" envPrefix:"LOG_"`
	Telemetry    TelemetryConfig             `yaml:"telemetry" toml:"telemetry" envPrefix:"TELEMETRY_"`
	Metrics      MetricsConfig               `yaml:"metrics" toml:"metrics" envPrefix:"METRICS_"`
	Harness      HarnessConfig               `yaml:"harness" toml:"harness" envPrefix:"HARNESS_"`
	Conversions  int                         `yaml:"conversions" toml:"conversions" env:"CONVERSIONS"`
	PersistState bool                        `yaml:"persistState" toml:"persistState" env:"PERSIST_STATE"`
	TraderData   string                      `yaml:"traderData" toml:"traderData" env:"TRADER_DATA"` // persistState 关闭时的固定 carry-forward 字符串
	Limits       map[string]int              `yaml:"limits" toml:"limits"`
	Instruments  map[string]InstrumentConfig `yaml:"instruments" toml:"instruments"`
}

type LogConfig struct {
	Level      string   `yaml:"level" toml:"level" env:"LEVEL"`
	Format     string   `yaml:"format" toml:"format" env:"FORMAT"` // json 或 console
	Outputs    []string `yaml:"outputs" toml:"outputs" env:"OUTPUTS" envSeparator:","`
	OutputFile string   `yaml:"outputFile" toml:"outputFile" env:"OUTPUT_FILE"`
}

type TelemetryConfig struct {
	MaxLength int `yaml:"maxLength" toml:"maxLength" env:"MAX_LENGTH"`
}

// MetricsConfig: Addr 为空时不启动指标端口。
type MetricsConfig struct {
	Addr string `yaml:"addr" toml:"addr" env:"ADDR"`
}

type HarnessConfig struct {
	Listen   string `yaml:"listen" toml:"listen" env:"LISTEN"`
	SpoolDir string `yaml:"spoolDir" toml:"spoolDir" env:"SPOOL_DIR"`
}

// InstrumentConfig 选择品种的报价策略，只需填写与 Policy 对应的参数块。
type InstrumentConfig struct {
	Policy    string           `yaml:"policy" toml:"policy"`
	Spread    *SpreadParams    `yaml:"spread,omitempty" toml:"spread,omitempty"`
	Band      *BandParams      `yaml:"band,omitempty" toml:"band,omitempty"`
	Signal    *SignalParams    `yaml:"signal,omitempty" toml:"signal,omitempty"`
	Basket    *BasketParams    `yaml:"basket,omitempty" toml:"basket,omitempty"`
	Momentum  *MomentumParams  `yaml:"momentum,omitempty" toml:"momentum,omitempty"`
	Threshold *ThresholdParams `yaml:"threshold,omitempty" toml:"threshold,omitempty"`
}

type SpreadParams struct {
	BaseRate          float64 `yaml:"baseRate" toml:"baseRate"`
	InventoryWeight   float64 `yaml:"inventoryWeight" toml:"inventoryWeight"`
	ImbalanceWeight   float64 `yaml:"imbalanceWeight" toml:"imbalanceWeight"`
	ImbalanceLevels   int     `yaml:"imbalanceLevels" toml:"imbalanceLevels"`
	LiquidityFraction float64 `yaml:"liquidityFraction" toml:"liquidityFraction"` // 0 视为 1
}

// BandParams 未填写（nil）的字段使用策略默认值，显式的 0 保留。
type BandParams struct {
	Threshold     *float64 `yaml:"threshold" toml:"threshold"`
	PassiveOffset *int     `yaml:"passiveOffset" toml:"passiveOffset"`
	SpreadOffset  *int     `yaml:"spreadOffset" toml:"spreadOffset"`
	Step          *int     `yaml:"step" toml:"step"`
	Size          *int     `yaml:"size" toml:"size"`
}

// SignalParams 未填写（nil）的字段使用策略默认值，显式的 0 保留。
type SignalParams struct {
	Product           string   `yaml:"product" toml:"product"`
	SunlightThreshold *float64 `yaml:"sunlightThreshold" toml:"sunlightThreshold"`
	HoursPerTimestamp *float64 `yaml:"hoursPerTimestamp" toml:"hoursPerTimestamp"`
	DayHours          *float64 `yaml:"dayHours" toml:"dayHours"`
	HumidityLow       *float64 `yaml:"humidityLow" toml:"humidityLow"`
	HumidityHigh      *float64 `yaml:"humidityHigh" toml:"humidityHigh"`
	Step              *int     `yaml:"step" toml:"step"`
}

type BasketParams struct {
	Components map[string]float64 `yaml:"components" toml:"components"`
	Offset     float64            `yaml:"offset" toml:"offset"`
}

type MomentumParams struct {
	Source string `yaml:"source" toml:"source"`
	Field  string `yaml:"field" toml:"field"`
}

type ThresholdParams struct {
	AcceptablePrice   int     `yaml:"acceptablePrice" toml:"acceptablePrice"`
	LiquidityFraction float64 `yaml:"liquidityFraction" toml:"liquidityFraction"`
}

// DefaultLimits 为参考持仓上限表。
func DefaultLimits() map[string]int {
	return map[string]int{
		"CHOCOLATE":    250,
		"STRAWBERRIES": 350,
		"ROSES":        60,
		"GIFT_BASKET":  60,
		"ORCHIDS":      100,
		"STARFRUIT":    20,
		"AMETHYSTS":    20,
	}
}

// Default 返回可直接运行的配置：全部品种使用价差策略。
func Default() AppConfig {
	cfg := AppConfig{
		Env:       "dev",
		Log:       LogConfig{Level: "info", Format: "json", Outputs: []string{"stderr"}},
		Telemetry: TelemetryConfig{MaxLength: 3750},
		Harness:   HarnessConfig{Listen: ":8080"},
		Limits:    DefaultLimits(),
	}
	cfg.Instruments = make(map[string]InstrumentConfig, len(cfg.Limits))
	for sym := range cfg.Limits {
		cfg.Instruments[sym] = InstrumentConfig{
			Policy: "spread",
			Spread: &SpreadParams{BaseRate: 0.0001, InventoryWeight: 0.0001, ImbalanceWeight: 0.0005},
		}
	}
	return cfg
}

// Load reads a YAML or TOML config (chosen by extension) and applies basic validation.
// Sections missing from the file keep their Default() values.
func Load(path string) (AppConfig, error) {
	cfg := Default()
	// 文件中出现的表整体替换默认值
	cfg.Limits, cfg.Instruments = nil, nil

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: read config: %v", ErrConfiguration, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: parse yaml: %v", ErrConfiguration, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(raw), &cfg); err != nil {
			return cfg, fmt.Errorf("%w: parse toml: %v", ErrConfiguration, err)
		}
	default:
		return cfg, fmt.Errorf("%w: unsupported config extension %q", ErrConfiguration, ext)
	}
	if cfg.Limits == nil {
		cfg.Limits = DefaultLimits()
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides fields from TRADER_* env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, Validate(cfg)
}

// ApplyEnv 只覆盖已设置的环境变量，未设置的字段保持原值。
func ApplyEnv(cfg *AppConfig) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("%w: env overrides: %v", ErrConfiguration, err)
	}
	return nil
}
