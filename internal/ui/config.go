package ui

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// AppConfig stores persistent application settings.
type AppConfig struct {
	DisplayUnit string `json:"display_unit"`
	LastProject string `json:"last_project,omitempty"`
}

// getConfigPath returns the path to the config file.
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	var configDir string
	// Use platform-appropriate config directory
	if os.Getenv("APPDATA") != "" {
		configDir = filepath.Join(os.Getenv("APPDATA"), "OpenTakeoff")
	} else {
		configDir = filepath.Join(homeDir, ".config", "opentakeoff")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the application configuration, returning defaults when
// no file exists yet.
func LoadConfig() (*AppConfig, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return &AppConfig{}, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &AppConfig{DisplayUnit: "ft"}, nil
		}
		return nil, err
	}

	var config AppConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveConfig saves the application configuration.
func SaveConfig(config *AppConfig) error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// saveDisplayUnit persists the unit choice without clobbering other
// settings.
func saveDisplayUnit(unit string) {
	cfg, err := LoadConfig()
	if err != nil {
		cfg = &AppConfig{}
	}
	cfg.DisplayUnit = unit
	_ = SaveConfig(cfg)
}
