package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TeamConfig is the cached team selection. TeamKey is the short issue
// prefix ("ENG"); TeamID is Linear's internal team UUID.
type TeamConfig struct {
	TeamID  string `json:"teamId"`
	TeamKey string `json:"teamKey"`
}

// TeamCache persists one TeamConfig as pretty-printed JSON. It is a cache:
// a missing, unreadable, or corrupt file is a miss, never an error.
type TeamCache struct {
	Path string
}

// DefaultTeamCachePath returns the per-user cache location,
// e.g. ~/.config/linear-branch/team.json.
func DefaultTeamCachePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "linear-branch", "team.json"), nil
}

// NewTeamCache creates a cache at path, or at the default per-user path
// when path is empty.
func NewTeamCache(path string) (*TeamCache, error) {
	if path == "" {
		var err error
		path, err = DefaultTeamCachePath()
		if err != nil {
			return nil, err
		}
	}
	return &TeamCache{Path: path}, nil
}

// Load returns the cached team, or nil on any kind of miss.
func (c *TeamCache) Load() *TeamConfig {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil
	}

	var cfg TeamConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil
	}
	if cfg.TeamID == "" || cfg.TeamKey == "" {
		return nil
	}
	return &cfg
}

// Save writes the team config, creating the directory if needed.
func (c *TeamCache) Save(cfg TeamConfig) error {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling team config: %w", err)
	}

	return os.WriteFile(c.Path, data, 0644)
}

// Clear removes the cached selection so the next run re-prompts.
func (c *TeamCache) Clear() error {
	err := os.Remove(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
