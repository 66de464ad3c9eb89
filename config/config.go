package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API     APIConfig     `yaml:"api" toml:"api"`
	Audio   AudioConfig   `yaml:"audio" toml:"audio"`
	Speech  SpeechConfig  `yaml:"speech" toml:"speech"`
	Voice   VoiceConfig   `yaml:"voice" toml:"voice"`
	Screen  ScreenConfig  `yaml:"screen" toml:"screen"`
	Control ControlConfig `yaml:"control" toml:"control"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

type APIConfig struct {
	BaseURL string            `yaml:"base_url" toml:"base_url"`
	Timeout string            `yaml:"timeout" toml:"timeout"`
	Headers map[string]string `yaml:"headers" toml:"headers"`
}

type AudioConfig struct {
	Recorder   string `yaml:"recorder" toml:"recorder"`
	ClipsDir   string `yaml:"clips_dir" toml:"clips_dir"`
	CaptureDir string `yaml:"capture_dir" toml:"capture_dir"`
}

type SpeechConfig struct {
	Synthesizer string   `yaml:"synthesizer" toml:"synthesizer"`
	Command     string   `yaml:"command" toml:"command"`
	Args        []string `yaml:"args" toml:"args"`
	PerRune     string   `yaml:"per_rune" toml:"per_rune"`
}

type VoiceConfig struct {
	Recognizer string `yaml:"recognizer" toml:"recognizer"`
	AutoStop   string `yaml:"auto_stop" toml:"auto_stop"`
	Welcome    bool   `yaml:"welcome" toml:"welcome"`
}

type ScreenConfig struct {
	Location    string            `yaml:"location" toml:"location"`
	Preferences map[string]string `yaml:"preferences" toml:"preferences"`
}

type ControlConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Addr      string `yaml:"addr" toml:"addr"`
	AuthToken string `yaml:"auth_token" toml:"auth_token"`
	RateLimit int    `yaml:"rate_limit" toml:"rate_limit"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Load reads a YAML or, for .toml files, TOML config. Environment variables
// in the file are expanded before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.setDefaults()

	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func (c *Config) setDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://localhost:5000/api"
	}
	if c.API.Timeout == "" {
		c.API.Timeout = "10s"
	}
	if c.Audio.Recorder == "" {
		c.Audio.Recorder = "file"
	}
	if c.Audio.CaptureDir == "" {
		c.Audio.CaptureDir = "./captures"
	}
	if c.Speech.Synthesizer == "" {
		c.Speech.Synthesizer = "console"
	}
	if c.Speech.Command == "" {
		c.Speech.Command = "espeak-ng"
	}
	if c.Speech.PerRune == "" {
		c.Speech.PerRune = "60ms"
	}
	if c.Voice.Recognizer == "" {
		c.Voice.Recognizer = "mock"
	}
	if c.Voice.AutoStop == "" {
		c.Voice.AutoStop = "3s"
	}
	if c.Screen.Location == "" {
		c.Screen.Location = "제주도"
	}
	if c.Control.Addr == "" {
		c.Control.Addr = ":8080"
	}
	if c.Control.RateLimit == 0 {
		c.Control.RateLimit = 30
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}
