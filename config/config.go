// Package config holds backtest run configuration: strategy parameters,
// engine feature toggles, and the results store location. Files may be
// YAML or JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultInitialCapital is the account equity a run starts with unless
// overridden.
const DefaultInitialCapital = 10_000

// Params are the strategy-facing run parameters.
//
// Older configurations used lot_size for the risk percentage and
// sl_pips/tp_pips for the ATR multipliers; Normalize resolves these
// aliases so the engine only ever sees the canonical fields.
type Params struct {
	RiskPercent float64 `json:"risk_percent" yaml:"risk_percent"`
	SLATRMult   float64 `json:"sl_atr_multiplier" yaml:"sl_atr_multiplier"`
	TPATRMult   float64 `json:"tp_atr_multiplier" yaml:"tp_atr_multiplier"`

	// Legacy aliases.
	LotSize float64 `json:"lot_size,omitempty" yaml:"lot_size,omitempty"`
	SLPips  float64 `json:"sl_pips,omitempty" yaml:"sl_pips,omitempty"`
	TPPips  float64 `json:"tp_pips,omitempty" yaml:"tp_pips,omitempty"`

	Features Features `json:"features" yaml:"features"`
}

// Features are the engine execution toggles. Unset values default to
// enabled, so the zero value is the fully realistic configuration.
type Features struct {
	EnableSpreadCosts        *bool `json:"enable_spread_costs,omitempty" yaml:"enable_spread_costs,omitempty"`
	EnableSlippage           *bool `json:"enable_slippage,omitempty" yaml:"enable_slippage,omitempty"`
	EnableRealisticExecution *bool `json:"enable_realistic_execution,omitempty" yaml:"enable_realistic_execution,omitempty"`
}

func enabled(b *bool) bool { return b == nil || *b }

func (f Features) SpreadCosts() bool        { return enabled(f.EnableSpreadCosts) }
func (f Features) Slippage() bool           { return enabled(f.EnableSlippage) }
func (f Features) RealisticExecution() bool { return enabled(f.EnableRealisticExecution) }

// Normalize resolves legacy aliases and fills zero fields with defaults.
func (p *Params) Normalize() {
	if p.RiskPercent == 0 && p.LotSize > 0 {
		p.RiskPercent = p.LotSize
	}
	if p.SLATRMult == 0 && p.SLPips > 0 {
		p.SLATRMult = p.SLPips
	}
	if p.TPATRMult == 0 && p.TPPips > 0 {
		p.TPATRMult = p.TPPips
	}

	if p.RiskPercent == 0 {
		p.RiskPercent = 1.0
	}
	if p.SLATRMult == 0 {
		p.SLATRMult = 2.0
	}
	if p.TPATRMult == 0 {
		p.TPATRMult = 4.0
	}
}

// Config is the complete run configuration.
type Config struct {
	Symbol         string  `json:"symbol" yaml:"symbol"`
	Timeframe      string  `json:"timeframe" yaml:"timeframe"`
	Strategy       string  `json:"strategy" yaml:"strategy"`
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	ATRPeriod      int     `json:"atr_period" yaml:"atr_period"`

	Params  Params        `json:"params" yaml:"params"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// JournalConfig locates the results store. An empty DBPath disables
// persistence.
type JournalConfig struct {
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Symbol:         "EURUSD",
		Timeframe:      "H1",
		Strategy:       "ema_cross_20_50",
		InitialCapital: DefaultInitialCapital,
		ATRPeriod:      14,
		Params: Params{
			RiskPercent: 1.0,
			SLATRMult:   2.0,
			TPATRMult:   4.0,
		},
	}
}

// LoadFromFile loads a configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Normalize resolves parameter aliases and fills zero fields with run
// defaults. Symbol and Strategy stay empty; Validate rejects them.
func (c *Config) Normalize() {
	if c.Timeframe == "" {
		c.Timeframe = "H1"
	}
	if c.InitialCapital == 0 {
		c.InitialCapital = DefaultInitialCapital
	}
	if c.ATRPeriod == 0 {
		c.ATRPeriod = 14
	}
	c.Params.Normalize()
}

// SaveToFile writes the configuration as YAML (.yaml/.yml) or JSON.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration after Normalize has been applied.
func (c *Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.Strategy == "" {
		return fmt.Errorf("strategy is required")
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial_capital must be positive")
	}
	if c.ATRPeriod <= 0 {
		return fmt.Errorf("atr_period must be positive")
	}
	if c.Params.RiskPercent <= 0 {
		return fmt.Errorf("params.risk_percent must be positive")
	}
	if c.Params.SLATRMult <= 0 {
		return fmt.Errorf("params.sl_atr_multiplier must be positive")
	}
	if c.Params.TPATRMult <= 0 {
		return fmt.Errorf("params.tp_atr_multiplier must be positive")
	}
	return nil
}
