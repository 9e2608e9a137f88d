package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

const configPath = "ledgerprobe.yaml"

const (
	defaultBaseURL    = "http://127.0.0.1:8081"
	defaultCurrency   = "beta_brousouf"
	defaultIntervalMs = 1000
	defaultTimeoutMs  = 5000
)

type Stages struct {
	Current   string   `yaml:"current"`
	Completed []string `yaml:"completed"`
}

// Intervals are the minimum gaps between throttled submissions.
type Intervals struct {
	MembershipsMs int `yaml:"memberships_ms"`
	VotesMs       int `yaml:"votes_ms"`
}

type Config struct {
	Scenario  string            `yaml:"scenario"`
	BaseURL   string            `yaml:"base_url"`
	Currency  string            `yaml:"currency"`
	TimeoutMs int               `yaml:"timeout_ms"`
	Intervals Intervals         `yaml:"intervals"`
	Keys      map[string]string `yaml:"keys"`
	Stages    Stages            `yaml:"stages"`
}

// New returns a config for scenario starting at firstStage.
func New(scenario, firstStage string) *Config {
	return &Config{
		Scenario:  scenario,
		BaseURL:   defaultBaseURL,
		Currency:  defaultCurrency,
		TimeoutMs: defaultTimeoutMs,
		Intervals: Intervals{
			MembershipsMs: defaultIntervalMs,
			VotesMs:       defaultIntervalMs,
		},
		Keys: map[string]string{},
		Stages: Stages{
			Current:   firstStage,
			Completed: []string{},
		},
	}
}

func Load() (*Config, error) {
	return LoadFrom(configPath)
}

func LoadFrom(path string) (*Config, error) {
	// Parse config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s not found\nRun this command from a directory created with 'ledgerprobe init'", path)
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	// Validation
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}

	if c.Currency == "" {
		c.Currency = defaultCurrency
	}

	if c.TimeoutMs == 0 {
		c.TimeoutMs = defaultTimeoutMs
	}

	if c.Intervals.MembershipsMs == 0 {
		c.Intervals.MembershipsMs = defaultIntervalMs
	}

	if c.Intervals.VotesMs == 0 {
		c.Intervals.VotesMs = defaultIntervalMs
	}

	if c.Keys == nil {
		c.Keys = map[string]string{}
	}

	if c.Stages.Completed == nil {
		c.Stages.Completed = []string{}
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Scenario == "":
		return fmt.Errorf("scenario name cannot be empty")
	case c.TimeoutMs < 0:
		return fmt.Errorf("timeout_ms cannot be negative")
	case c.Intervals.MembershipsMs < 0 || c.Intervals.VotesMs < 0:
		return fmt.Errorf("intervals cannot be negative")
	}

	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c *Config) MembershipInterval() time.Duration {
	return time.Duration(c.Intervals.MembershipsMs) * time.Millisecond
}

func (c *Config) VoteInterval() time.Duration {
	return time.Duration(c.Intervals.VotesMs) * time.Millisecond
}

// Complete marks stage as completed, once.
func (c *Config) Complete(stage string) {
	for _, done := range c.Stages.Completed {
		if done == stage {
			return
		}
	}

	c.Stages.Completed = append(c.Stages.Completed, stage)
}

func Save(cfg *Config) error {
	return SaveTo(cfg, configPath)
}

func SaveTo(cfg *Config, path string) error {
	bytes, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, bytes, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
