package config

import (
	"fmt"
	"slices"

	"go.uber.org/zap/zapcore"
)

var policyKinds = []string{"spread", "band", "signal", "basket", "momentum", "threshold"}

// Validate ensures required fields are present and every instrument is quotable.
func Validate(cfg AppConfig) error {
	if err := validate(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

func validate(cfg AppConfig) error {
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level %q: %v", cfg.Log.Level, err)
	}
	if cfg.Log.Format != "" && cfg.Log.Format != "json" && cfg.Log.Format != "console" {
		return fmt.Errorf("log.format must be json or console, got %q", cfg.Log.Format)
	}
	if cfg.Telemetry.MaxLength < 0 {
		return fmt.Errorf("telemetry.maxLength must be >= 0")
	}
	for sym, limit := range cfg.Limits {
		if limit < 0 {
			return fmt.Errorf("limit for %s must be >= 0", sym)
		}
	}
	for sym, ic := range cfg.Instruments {
		if err := validateInstrument(ic); err != nil {
			return fmt.Errorf("instrument %s: %v", sym, err)
		}
	}
	return nil
}

func validateInstrument(ic InstrumentConfig) error {
	if !slices.Contains(policyKinds, ic.Policy) {
		return fmt.Errorf("unknown policy %q", ic.Policy)
	}
	switch ic.Policy {
	case "spread":
		if ic.Spread == nil {
			return fmt.Errorf("spread params are required")
		}
		if ic.Spread.LiquidityFraction < 0 || ic.Spread.LiquidityFraction > 1 {
			return fmt.Errorf("spread.liquidityFraction must be in [0,1]")
		}
	case "basket":
		if ic.Basket == nil || len(ic.Basket.Components) == 0 {
			return fmt.Errorf("basket components are required")
		}
	case "momentum":
		if ic.Momentum == nil || ic.Momentum.Source == "" {
			return fmt.Errorf("momentum.source is required")
		}
	case "threshold":
		if ic.Threshold == nil || ic.Threshold.AcceptablePrice <= 0 {
			return fmt.Errorf("threshold.acceptablePrice must be > 0")
		}
	}
	return nil
}
