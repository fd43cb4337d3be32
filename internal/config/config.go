package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"wilt/internal/schedule"
)

type Config struct {
	Listen   string          `yaml:"listen" json:"listen"`
	DataDir  string          `yaml:"data_dir" json:"data_dir"`
	Schedule schedule.Policy `yaml:"schedule" json:"schedule"`
	AI       AIConfig        `yaml:"ai" json:"ai"`
	CORS     CORSConfig      `yaml:"cors" json:"cors"`
}

// AIConfig points at an OpenAI-compatible scoring endpoint. An empty
// APIKey disables the remote scorer; the heuristic fallback is used.
type AIConfig struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
	Model   string `yaml:"model" json:"model"`
	APIKey  string `yaml:"api_key" json:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
}

func (c *Config) ApplyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8484"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Schedule == (schedule.Policy{}) {
		c.Schedule = schedule.Default()
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = "https://api.openai.com/v1"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gpt-4o-mini"
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
}

// Load reads a YAML config file. A missing file is fine: the defaults
// plus environment overrides make a working config on their own.
func Load(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	c.applyEnv()
	return &c, nil
}
