// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MemberConfig describes one council member in the roster
type MemberConfig struct {
	Model       string `yaml:"model,omitempty"`
	Personality string `yaml:"personality"`
	Voter       *bool  `yaml:"voter,omitempty"`
	Silent      bool   `yaml:"silent,omitempty"`
}

// UserConfig carries the user profile injected into every prompt
type UserConfig struct {
	Attributes []string `yaml:"attributes,omitempty"`
	Goal       string   `yaml:"goal,omitempty"`
}

type Config struct {
	APIURL      string  `yaml:"api_url"`
	APIKey      string  `yaml:"openai_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	Mode        string  `yaml:"mode"`

	CouncilPrompt          string `yaml:"universal_council_prompt"`
	PrimeMinisterPrompt    string `yaml:"primeminister_prompt"`
	AdvisorSynthesisPrompt string `yaml:"primeminister_advisor_prompt"`

	User    UserConfig     `yaml:"user"`
	Council []MemberConfig `yaml:"council"`
}

func Load() (*Config, error) {
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		// Return defaults if no config file
		return defaultConfig(), nil
	}

	// Expand environment variables in config
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigPath(), err)
	}

	// Apply defaults for unset values
	applyDefaults(&cfg)

	return &cfg, nil
}

// Save writes the configuration to the config path, creating the directory
// if needed.
func Save(cfg *Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Council = []MemberConfig{
		{Personality: "The Pragmatist - focuses on actionable, low-risk steps"},
		{Personality: "The Visionary - pushes for ambitious, long-term thinking"},
		{Personality: "The Skeptic - stress-tests every assumption"},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.openai.com/v1"
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.Mode == "" {
		cfg.Mode = "council"
	}
	if cfg.CouncilPrompt == "" {
		cfg.CouncilPrompt = "You are a member of an advisory council. Give focused, honest advice from your assigned perspective."
	}
	if cfg.PrimeMinisterPrompt == "" {
		cfg.PrimeMinisterPrompt = "You are the Prime Minister. Weigh the council's advice and the voting results, then deliver a single clear decision."
	}
	if cfg.AdvisorSynthesisPrompt == "" {
		cfg.AdvisorSynthesisPrompt = "You are the Prime Minister. Synthesize the advisory discussion into one coherent recommendation."
	}
	for i := range cfg.Council {
		if cfg.Council[i].Model == "" {
			cfg.Council[i].Model = cfg.Model
		}
	}
}

// IsVoter reports whether the member votes; unset means true.
func (m MemberConfig) IsVoter() bool {
	if m.Voter == nil {
		return true
	}
	return *m.Voter
}

func ConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil || configDir == "" {
		configDir = os.ExpandEnv("$HOME/.config")
	}
	return filepath.Join(configDir, "primeminister", "config.yaml")
}

// UserContext renders the user profile block appended to prompts.
func (c *Config) UserContext() string {
	context := "User attributes: "
	for i, attr := range c.User.Attributes {
		if i > 0 {
			context += ", "
		}
		context += attr
	}
	context += "\n"
	if c.User.Goal != "" {
		context += "User goal: " + c.User.Goal
	}
	return context
}
