package settingsstore

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/mrlokans/h2o/internal/entities"
)

const (
	SourceDatabase    = "database"
	SourceEnvironment = "environment"
	SourceDefault     = "default"
)

var (
	// ErrUnknownSetting is returned for keys that are not preferences.
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrInvalidSetting is returned when a new value is rejected.
	ErrInvalidSetting = errors.New("invalid setting")
)

// Repository is the storage the store reads and writes.
type Repository interface {
	GetSetting(key string) (*entities.Setting, error)
	SetSettings(values map[string]string) error
	DeleteSettings(keys []string) error
}

// SettingsStore resolves preferences. Priority: database > environment > default.
// A key stored in the database wins even when its value is empty, so a
// template can be cleared on purpose.
type SettingsStore struct {
	repo      Repository
	overrides map[string]string
}

// New creates a store. overrides are the environment values, keyed by
// setting key.
func New(repo Repository, overrides map[string]string) *SettingsStore {
	if overrides == nil {
		overrides = map[string]string{}
	}
	return &SettingsStore{repo: repo, overrides: overrides}
}

// SettingInfo is one resolved preference with the place it came from.
type SettingInfo struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Source string `json:"source"` // "database", "environment", or "default"
}

// Get resolves a single key.
func (s *SettingsStore) Get(key string) (SettingInfo, error) {
	def, ok := definitions[key]
	if !ok {
		return SettingInfo{}, fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}

	setting, err := s.repo.GetSetting(key)
	if err == nil {
		return SettingInfo{Key: key, Value: setting.Value, Source: SourceDatabase}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return SettingInfo{}, fmt.Errorf("failed to read setting %s: %w", key, err)
	}

	if value, ok := s.overrides[key]; ok {
		return SettingInfo{Key: key, Value: value, Source: SourceEnvironment}, nil
	}
	return SettingInfo{Key: key, Value: def.value, Source: SourceDefault}, nil
}

// All resolves every preference, ordered by key.
func (s *SettingsStore) All() ([]SettingInfo, error) {
	keys := Keys()
	infos := make([]SettingInfo, 0, len(keys))
	for _, key := range keys {
		info, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Preferences resolves and parses every preference.
func (s *SettingsStore) Preferences() (Preferences, error) {
	values := make(map[string]string, len(definitions))
	for key := range definitions {
		info, err := s.Get(key)
		if err != nil {
			return Preferences{}, err
		}
		values[key] = info.Value
	}
	return parsePreferences(values)
}

// Set stores new values for the given keys after checking that the
// resulting preferences are valid. Nothing is stored when any value is
// rejected.
func (s *SettingsStore) Set(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	current := make(map[string]string, len(definitions))
	for key := range definitions {
		info, err := s.Get(key)
		if err != nil {
			return err
		}
		current[key] = info.Value
	}
	for key, value := range values {
		if _, ok := definitions[key]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
		}
		current[key] = value
	}

	prefs, err := parsePreferences(current)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	if err := prefs.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}

	return s.repo.SetSettings(values)
}

// Reset removes stored values so the environment or defaults apply again.
// Without keys, every preference except the send bookkeeping is reset.
func (s *SettingsStore) Reset(keys ...string) error {
	if len(keys) == 0 {
		for _, key := range Keys() {
			if !definitions[key].bookkeeping {
				keys = append(keys, key)
			}
		}
	}
	for _, key := range keys {
		if _, ok := definitions[key]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
		}
	}
	return s.repo.DeleteSettings(keys)
}

// Keys lists every preference key in order.
func Keys() []string {
	keys := make([]string, 0, len(definitions))
	for key := range definitions {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
