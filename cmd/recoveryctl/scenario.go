package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/constraint"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/flight"
	"github.com/Hehua-Fan/flight-adjustment-system/internal/recovery"
)

// scenarioFile is the on-disk YAML shape a caller hands to recoveryctl:
// a flight table, a constraint bundle, and the weight-vector sweep to
// run as a batch.
type scenarioFile struct {
	Flights []map[string]interface{} `yaml:"flights"`

	Constraints struct {
		AirportRestriction []struct {
			RestrictionType string `yaml:"restriction_type"`
			AirportCode     string `yaml:"airport_code"`
			StartTimeOfDay  string `yaml:"start_time_of_day"`
			EndTimeOfDay    string `yaml:"end_time_of_day"`
			Priority        string `yaml:"priority"`
		} `yaml:"airport_restriction"`

		// Each window value accepts either a bare integer or a
		// {limit, priority} mapping; constraint.CapacityWindowLimit's
		// UnmarshalYAML handles both.
		AirportCapacity map[string]map[string]constraint.CapacityWindowLimit `yaml:"airport_capacity"`

		Quota struct {
			Cancel *struct {
				Max      int    `yaml:"max"`
				Priority string `yaml:"priority"`
			} `yaml:"cancel"`
			Swap *struct {
				Max      int    `yaml:"max"`
				Priority string `yaml:"priority"`
			} `yaml:"swap"`
		} `yaml:"quota"`
	} `yaml:"constraints"`

	WeightVectors []struct {
		Cancel float64 `yaml:"cancel"`
		Delay  float64 `yaml:"delay"`
		Swap   float64 `yaml:"swap"`
	} `yaml:"weight_vectors"`
}

func loadScenario(path string) (*scenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s scenarioFile
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *scenarioFile) rawRecords() []flight.RawRecord {
	out := make([]flight.RawRecord, 0, len(s.Flights))
	for _, row := range s.Flights {
		out = append(out, flight.RawRecord(row))
	}
	return out
}

func (s *scenarioFile) bundle() constraint.Bundle {
	var b constraint.Bundle

	for _, r := range s.Constraints.AirportRestriction {
		b.AirportRestriction = append(b.AirportRestriction, constraint.CurfewRule{
			RestrictionType: r.RestrictionType,
			AirportCode:     r.AirportCode,
			StartTimeOfDay:  r.StartTimeOfDay,
			EndTimeOfDay:    r.EndTimeOfDay,
			Priority:        r.Priority,
		})
	}

	if len(s.Constraints.AirportCapacity) > 0 {
		b.AirportCapacity = constraint.CapacityRule(s.Constraints.AirportCapacity)
	}

	if c := s.Constraints.Quota.Cancel; c != nil {
		b.Quota.Cancel = &constraint.QuotaLimit{Max: c.Max, Priority: c.Priority}
	}
	if sw := s.Constraints.Quota.Swap; sw != nil {
		b.Quota.Swap = &constraint.QuotaLimit{Max: sw.Max, Priority: sw.Priority}
	}

	return b
}

func (s *scenarioFile) weightVectors() []recovery.WeightVector {
	if len(s.WeightVectors) == 0 {
		return []recovery.WeightVector{recovery.DefaultWeights}
	}
	out := make([]recovery.WeightVector, 0, len(s.WeightVectors))
	for _, w := range s.WeightVectors {
		out = append(out, recovery.WeightVector{Cancel: w.Cancel, Delay: w.Delay, Swap: w.Swap})
	}
	return out
}
