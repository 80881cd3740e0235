package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the flat brigadir configuration
type Config struct {
	Version         string `json:"version"`
	BotToken        string `json:"bot_token,omitempty"`         // Telegram Bot API token
	MiniAppURL      string `json:"miniapp_url,omitempty"`       // Base URL for deep-link buttons
	LogPath         string `json:"log_path,omitempty"`          // Rotated engine log file
	TickSeconds     int    `json:"tick_seconds,omitempty"`      // Scheduler tick interval (default 60)
	DigestHour      int    `json:"digest_hour,omitempty"`       // Morning digest hour (default 8)
	PlanFactHour    int    `json:"plan_fact_hour,omitempty"`    // Daily plan-fact request hour (default 18)
	EveningCutoffHr int    `json:"evening_cutoff_hr,omitempty"` // Director escalation cutoff (default 20)
}

// Defaults applied when the config file omits a value.
const (
	DefaultTickSeconds     = 60
	DefaultDigestHour      = 8
	DefaultPlanFactHour    = 18
	DefaultEveningCutoffHr = 20
)

// LoadConfig reads .brigadir/config.json from the specified directory.
// Resolution order: cwd only (no home fallback).
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".brigadir", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	brigDir := filepath.Join(dir, ".brigadir")
	if err := os.MkdirAll(brigDir, 0755); err != nil {
		return fmt.Errorf("failed to create .brigadir dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(brigDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.TickSeconds <= 0 {
		cfg.TickSeconds = DefaultTickSeconds
	}
	if cfg.DigestHour <= 0 {
		cfg.DigestHour = DefaultDigestHour
	}
	if cfg.PlanFactHour <= 0 {
		cfg.PlanFactHour = DefaultPlanFactHour
	}
	if cfg.EveningCutoffHr <= 0 {
		cfg.EveningCutoffHr = DefaultEveningCutoffHr
	}
}
