package trader

import (
	"fmt"
	"io"

	"tick-trader/config"
	"tick-trader/inventory"
	"tick-trader/strategy"
	"tick-trader/telemetry"
)

// FromConfig 基于配置组装 Trader：每个品种一个策略，遥测写入 out。
func FromConfig(cfg config.AppConfig, out io.Writer, opts ...Option) (*Trader, error) {
	policies, err := BuildPolicies(cfg.Instruments)
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithTelemetry(telemetry.New(out, telemetry.WithMaxLength(cfg.Telemetry.MaxLength))),
		WithConversions(cfg.Conversions),
		WithPersistState(cfg.PersistState),
		WithTraderData(cfg.TraderData),
	}
	return New(policies, inventory.Limits(cfg.Limits), append(base, opts...)...), nil
}

// BuildPolicies maps instrument configs to policies through the factory.
func BuildPolicies(instruments map[string]config.InstrumentConfig) (map[string]strategy.Policy, error) {
	factory := strategy.NewPolicyFactory()
	out := make(map[string]strategy.Policy, len(instruments))
	for sym, ic := range instruments {
		kind := strategy.Kind(ic.Policy)
		p, err := factory.CreatePolicy(sym, kind, policyConfig(kind, ic))
		if err != nil {
			return nil, fmt.Errorf("%w: instrument %s: %v", config.ErrConfiguration, sym, err)
		}
		out[sym] = p
	}
	return out, nil
}

// policyConfig 将配置参数块转换为策略配置，未填写的字段沿用策略默认值。
func policyConfig(kind strategy.Kind, ic config.InstrumentConfig) interface{} {
	switch kind {
	case strategy.SpreadKind:
		var c strategy.SpreadConfig
		if p := ic.Spread; p != nil {
			c.Coefficients = strategy.Coefficients{
				BaseRate:        p.BaseRate,
				InventoryWeight: p.InventoryWeight,
				ImbalanceWeight: p.ImbalanceWeight,
				ImbalanceLevels: p.ImbalanceLevels,
			}
			c.LiquidityFraction = p.LiquidityFraction
		}
		return c
	case strategy.BandKind:
		c := strategy.DefaultBandConfig()
		if p := ic.Band; p != nil {
			setFloat(&c.Threshold, p.Threshold)
			setInt(&c.PassiveOffset, p.PassiveOffset)
			setInt(&c.SpreadOffset, p.SpreadOffset)
			setInt(&c.Step, p.Step)
			setInt(&c.Size, p.Size)
		}
		return c
	case strategy.SignalKind:
		c := strategy.DefaultSignalConfig()
		if p := ic.Signal; p != nil {
			if p.Product != "" {
				c.Product = p.Product
			}
			setFloat(&c.SunlightThreshold, p.SunlightThreshold)
			setFloat(&c.HoursPerTimestamp, p.HoursPerTimestamp)
			setFloat(&c.DayHours, p.DayHours)
			setFloat(&c.HumidityLow, p.HumidityLow)
			setFloat(&c.HumidityHigh, p.HumidityHigh)
			setInt(&c.Step, p.Step)
		}
		return c
	case strategy.BasketKind:
		var c strategy.BasketConfig
		if p := ic.Basket; p != nil {
			c.Components, c.Offset = p.Components, p.Offset
		}
		return c
	case strategy.MomentumKind:
		var c strategy.MomentumConfig
		if p := ic.Momentum; p != nil {
			c.Source, c.Field = p.Source, p.Field
		}
		return c
	case strategy.ThresholdKind:
		var c strategy.ThresholdConfig
		if p := ic.Threshold; p != nil {
			c.AcceptablePrice, c.LiquidityFraction = p.AcceptablePrice, p.LiquidityFraction
		}
		return c
	}
	return nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
