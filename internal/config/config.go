// Package config loads the scenario mapping, composite rules and
// billing rates that drive the engine. The file is plain YAML owned by
// the operations side; the engine consumes it as structures.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	billing "illuminator-billing/internal/billing/domain"
)

// RuleConfig defines one composite rule: the scenarios the keyed
// scenario includes, plus an optional authoritative power rating.
type RuleConfig struct {
	Includes []string `yaml:"includes"`
	PowerKW  float64  `yaml:"power_kw"`
}

// BillingConfig holds rate settings. RatePerKWh, when set, overrides
// every per-row rate in the data; FallbackRatePerKWh applies when
// neither an override nor a per-row rate is available.
type BillingConfig struct {
	RatePerKWh         *float64 `yaml:"rate_per_kwh"`
	FallbackRatePerKWh float64  `yaml:"fallback_rate_per_kwh"`
}

// Config is the full engine configuration.
type Config struct {
	ScenarioMappings map[string]string     `yaml:"scenario_mappings"`
	CompositeRules   map[string]RuleConfig `yaml:"composite_rules"`
	Billing          BillingConfig         `yaml:"billing"`
}

// Load reads and validates the YAML config at path. Env vars fill the
// billing rates when the file leaves them unset: ILLUMINATOR_RATE_PER_KWH
// and ILLUMINATOR_FALLBACK_RATE_PER_KWH.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.Billing.RatePerKWh == nil {
		if rate, ok := getenvFloat("ILLUMINATOR_RATE_PER_KWH"); ok {
			cfg.Billing.RatePerKWh = &rate
		}
	}
	if cfg.Billing.FallbackRatePerKWh == 0 {
		if rate, ok := getenvFloat("ILLUMINATOR_FALLBACK_RATE_PER_KWH"); ok {
			cfg.Billing.FallbackRatePerKWh = rate
		} else {
			cfg.Billing.FallbackRatePerKWh = billing.DefaultFallbackRatePerKWh
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the parts the engine cannot tolerate being wrong.
// Rules may reference scenarios not present in the mapping; those only
// matter once matching usage data appears.
func (c Config) Validate() error {
	if len(c.ScenarioMappings) == 0 {
		return errors.New("config: no scenario mappings configured")
	}
	if c.Billing.RatePerKWh != nil && *c.Billing.RatePerKWh < 0 {
		return errors.New("config: rate_per_kwh must not be negative")
	}
	if c.Billing.FallbackRatePerKWh < 0 {
		return errors.New("config: fallback_rate_per_kwh must not be negative")
	}
	for key, rule := range c.CompositeRules {
		if rule.PowerKW < 0 {
			return fmt.Errorf("config: composite rule %q: power_kw must not be negative", key)
		}
		if len(rule.Includes) == 0 {
			return fmt.Errorf("config: composite rule %q: empty includes list", key)
		}
	}
	return nil
}

// Mapping returns the scenario-to-area mapping as the domain type.
func (c Config) Mapping() billing.AreaMapping {
	mapping := make(billing.AreaMapping, len(c.ScenarioMappings))
	for key, area := range c.ScenarioMappings {
		mapping[key] = area
	}
	return mapping
}

// Rules returns the composite rules as the domain type.
func (c Config) Rules() billing.RuleSet {
	rules := make(billing.RuleSet, len(c.CompositeRules))
	for key, rule := range c.CompositeRules {
		rules[key] = billing.CompositeRule{Includes: rule.Includes, PowerKW: rule.PowerKW}
	}
	return rules
}

func getenvFloat(key string) (float64, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
