package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"chronos/internal/core/model"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	settingsFileName = "settings.yaml"
	historyFileName  = "history.db"
)

type yamlSettings struct {
	WorkMinutes *float64 `yaml:"work_minutes,omitempty"`
	RestMinutes *float64 `yaml:"rest_minutes,omitempty"`
	LogDir      string   `yaml:"log_dir,omitempty"`
	AudioMuted  bool     `yaml:"audio_muted"`
}

// ConfigDir returns the per-user directory that holds settings and history.
func ConfigDir(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}

// SettingsPath returns the settings file inside dir.
func SettingsPath(dir string) string {
	return filepath.Join(dir, settingsFileName)
}

// HistoryPath returns the session history database inside dir.
func HistoryPath(dir string) string {
	return filepath.Join(dir, historyFileName)
}

// SettingsStore keeps user preferences in a YAML file.
// If the file does not exist, default settings are used.
type SettingsStore struct {
	path   string
	logger zerolog.Logger

	mu      sync.RWMutex
	current model.Settings
}

// NewSettingsStore creates a store for path. logger may be nil.
func NewSettingsStore(path string, logger *zerolog.Logger) *SettingsStore {
	storeLogger := zerolog.Nop()
	if logger != nil {
		storeLogger = logger.With().Str("component", "settings").Logger()
	}
	return &SettingsStore{
		path:    path,
		logger:  storeLogger,
		current: model.DefaultSettings(),
	}
}

// Path returns the settings file location.
func (store *SettingsStore) Path() string {
	return store.path
}

// Get returns the last loaded or saved settings.
func (store *SettingsStore) Get() model.Settings {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.current
}

// Load reads the settings file and makes it current. On error the
// current settings are left unchanged and returned.
func (store *SettingsStore) Load() (model.Settings, error) {
	settings, err := store.read()
	if err != nil {
		return store.Get(), err
	}
	store.mu.Lock()
	store.current = settings
	store.mu.Unlock()
	return settings, nil
}

// Save applies patch to the current settings and writes the result.
func (store *SettingsStore) Save(patch model.SettingsPatch) (model.Settings, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	settings := normalizeSettings(patch.Apply(store.current))
	if err := store.write(settings); err != nil {
		return store.current, err
	}
	store.current = settings
	store.logger.Debug().
		Float64("work_minutes", settings.WorkMinutes).
		Float64("rest_minutes", settings.RestMinutes).
		Bool("audio_muted", settings.AudioMuted).
		Msg("settings saved")
	return settings, nil
}

func (store *SettingsStore) read() (model.Settings, error) {
	settings := model.DefaultSettings()
	rawData, err := os.ReadFile(store.path)
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
	return normalizeSettings(settings), nil
}

func (store *SettingsStore) write(settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	work, rest := settings.WorkMinutes, settings.RestMinutes
	serialized, err := yaml.Marshal(yamlSettings{
		WorkMinutes: &work,
		RestMinutes: &rest,
		LogDir:      settings.LogDir,
		AudioMuted:  settings.AudioMuted,
	})
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	tmpPath := store.path + ".tmp"
	if err := os.WriteFile(tmpPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tmpPath, store.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.WorkMinutes != nil {
		settings.WorkMinutes = *fileData.WorkMinutes
	}
	if fileData.RestMinutes != nil {
		settings.RestMinutes = *fileData.RestMinutes
	}
	settings.LogDir = fileData.LogDir
	settings.AudioMuted = fileData.AudioMuted
}

func normalizeSettings(settings model.Settings) model.Settings {
	settings.WorkMinutes = model.ClampMinutes(settings.WorkMinutes, model.MaxWorkMinutes)
	settings.RestMinutes = model.ClampMinutes(settings.RestMinutes, model.MaxRestMinutes)
	return settings
}
