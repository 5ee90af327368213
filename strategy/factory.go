package strategy

import (
	"errors"
	"fmt"
)

// PolicyFactory creates policy instances based on configuration.
type PolicyFactory struct{}

// NewPolicyFactory creates a new PolicyFactory.
func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{}
}

// CreatePolicy creates a policy for symbol from the kind and its matching config struct.
func (f *PolicyFactory) CreatePolicy(symbol string, kind Kind, config interface{}) (Policy, error) {
	switch kind {
	case SpreadKind:
		if cfg, ok := config.(SpreadConfig); ok {
			return NewSpreadPolicy(cfg)
		}
		return nil, errors.New("invalid spread policy config")
	case BandKind:
		if cfg, ok := config.(BandConfig); ok {
			return NewBandPolicy(cfg)
		}
		return nil, errors.New("invalid band policy config")
	case SignalKind:
		if cfg, ok := config.(SignalConfig); ok {
			return NewSignalPolicy(symbol, cfg)
		}
		return nil, errors.New("invalid signal policy config")
	case BasketKind:
		if cfg, ok := config.(BasketConfig); ok {
			return NewBasketPolicy(cfg)
		}
		return nil, errors.New("invalid basket policy config")
	case MomentumKind:
		if cfg, ok := config.(MomentumConfig); ok {
			return NewMomentumPolicy(cfg)
		}
		return nil, errors.New("invalid momentum policy config")
	case ThresholdKind:
		if cfg, ok := config.(ThresholdConfig); ok {
			return NewThresholdPolicy(cfg)
		}
		return nil, errors.New("invalid threshold policy config")
	default:
		return nil, fmt.Errorf("unknown policy kind: %s", kind)
	}
}
