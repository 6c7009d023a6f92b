// Package engineconfig loads the engine's ambient configuration: cost
// parameters, solve limits, and the default weight vector, the same way
// the teacher's service configs are loaded — a nested YAML struct read
// once at startup through pkg/util.LoadConfig.
package engineconfig

import (
	"time"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/recovery"
	"github.com/Hehua-Fan/flight-adjustment-system/pkg/util"
)

// EngineConfig is the on-disk shape of configs/engine.yaml.
type EngineConfig struct {
	Engine struct {
		Costs   CostsConfig   `yaml:"costs"`
		Limits  LimitsConfig  `yaml:"limits"`
		Weights WeightsConfig `yaml:"default_weights"`
	} `yaml:"engine"`
}

type CostsConfig struct {
	Cancel         float64 `yaml:"cancel"` // C_CANCEL: configurable, but see recovery.buildObjective — unused by the objective, which charges cancellation at the flight's own revenue instead.
	Swap           float64 `yaml:"swap"`
	DelayPerMinute float64 `yaml:"delay_per_minute"`
	PenaltyHigh    float64 `yaml:"penalty_high"`
	PenaltyMedium  float64 `yaml:"penalty_medium"`
	PenaltyLow     float64 `yaml:"penalty_low"`
}

type LimitsConfig struct {
	MaxDelayMinutes     int     `yaml:"max_delay_minutes"`
	SevereDelayThreshold int    `yaml:"severe_delay_threshold"`
	BigM                float64 `yaml:"big_m"`
	SolverName          string  `yaml:"solver_name"`
	TimeLimitSeconds    int     `yaml:"time_limit_seconds"`
	MIPGap              float64 `yaml:"mip_gap"`
}

type WeightsConfig struct {
	Cancel float64 `yaml:"cancel"`
	Delay  float64 `yaml:"delay"`
	Swap   float64 `yaml:"swap"`
}

// Load reads an EngineConfig from a YAML file at path.
func Load(path string) (*EngineConfig, error) {
	return util.LoadConfig[EngineConfig](path)
}

// CostParams converts the loaded config into recovery.CostParams.
func (c EngineConfig) CostParams() recovery.CostParams {
	return recovery.CostParams{
		Cancel:         c.Engine.Costs.Cancel,
		Swap:           c.Engine.Costs.Swap,
		DelayPerMinute: c.Engine.Costs.DelayPerMinute,
		PenaltyHigh:    c.Engine.Costs.PenaltyHigh,
		PenaltyMedium:  c.Engine.Costs.PenaltyMedium,
		PenaltyLow:     c.Engine.Costs.PenaltyLow,
	}
}

// SolveLimits converts the loaded config into recovery.SolveLimits.
func (c EngineConfig) SolveLimits() recovery.SolveLimits {
	return recovery.SolveLimits{
		MaxDelayMinutes:     c.Engine.Limits.MaxDelayMinutes,
		SeverDelayThreshold: c.Engine.Limits.SevereDelayThreshold,
		BigM:                c.Engine.Limits.BigM,
		SolverName:          c.Engine.Limits.SolverName,
		TimeLimit:           time.Duration(c.Engine.Limits.TimeLimitSeconds) * time.Second,
		MIPGap:              c.Engine.Limits.MIPGap,
	}
}

// DefaultWeights converts the loaded config into a recovery.WeightVector.
func (c EngineConfig) DefaultWeights() recovery.WeightVector {
	return recovery.WeightVector{
		Cancel: c.Engine.Weights.Cancel,
		Delay:  c.Engine.Weights.Delay,
		Swap:   c.Engine.Weights.Swap,
	}
}
