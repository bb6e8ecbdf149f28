package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"countdown/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	StartTime      *int     `yaml:"start_time"`
	DurationMS     int      `yaml:"duration_ms"`
	Chime          *bool    `yaml:"chime"`
	StoppedOpacity float64  `yaml:"stopped_opacity"`
	CircleSize     float32  `yaml:"circle_size"`
	Palette        []string `yaml:"palette"`
}

// LoadSettings reads user preferences from the YAML file at path.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to the YAML file at path.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	startTime := settings.StartTime
	chime := settings.Chime
	fileData := yamlSettings{
		StartTime:      &startTime,
		DurationMS:     int(settings.Duration / time.Millisecond),
		Chime:          &chime,
		StoppedOpacity: settings.StoppedOpacity,
		CircleSize:     settings.CircleSize,
		Palette:        settings.Palette,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// ResolveConfigPath returns the settings file location for appName.
func ResolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.StartTime != nil && *fileData.StartTime >= 0 {
		settings.StartTime = *fileData.StartTime
	}
	if fileData.DurationMS > 0 {
		settings.Duration = time.Duration(fileData.DurationMS) * time.Millisecond
	}
	if fileData.Chime != nil {
		settings.Chime = *fileData.Chime
	}
	if fileData.StoppedOpacity > 0 && fileData.StoppedOpacity <= 1 {
		settings.StoppedOpacity = fileData.StoppedOpacity
	}
	if fileData.CircleSize >= 100 && fileData.CircleSize <= 2000 {
		settings.CircleSize = fileData.CircleSize
	}
	if len(fileData.Palette) > 0 {
		settings.Palette = append([]string(nil), fileData.Palette...)
	}
}
