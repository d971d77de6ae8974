// Package prefs manages persisted display preferences.
package prefs

import (
	"context"
	"fmt"
	"strings"
)

// Theme is a display color-scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	// ThemeSystem defers to the environment's color scheme.
	ThemeSystem Theme = "system"
)

const themeSettingKey = "theme"

// ParseTheme validates a user-supplied theme name.
func ParseTheme(value string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(value))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	case ThemeSystem:
		return ThemeSystem, nil
	default:
		return "", fmt.Errorf("unknown theme %q (expected light, dark, or system)", value)
	}
}

// Environment supplies the ambient state the theme depends on. It is read
// once at startup so tests can substitute a fixed environment.
type Environment interface {
	// SystemScheme reports the host's preferred scheme, light or dark.
	SystemScheme() Theme
	// StoredTheme returns the persisted preference, or "" when unset.
	StoredTheme(ctx context.Context) (string, error)
}

// SettingsStore is the persistence surface for preferences.
type SettingsStore interface {
	GetLocalSetting(ctx context.Context, key string) (string, error)
	SetLocalSetting(ctx context.Context, key, value string) error
}

// StoreEnvironment reads the stored preference from the settings store and
// assumes a light system scheme, matching a headless host.
type StoreEnvironment struct {
	Store SettingsStore
}

func (e StoreEnvironment) SystemScheme() Theme { return ThemeLight }

func (e StoreEnvironment) StoredTheme(ctx context.Context) (string, error) {
	if e.Store == nil {
		return "", nil
	}
	return e.Store.GetLocalSetting(ctx, themeSettingKey)
}

// Resolve determines the effective theme: an explicit stored preference wins,
// otherwise the system scheme applies.
func Resolve(stored Theme, systemScheme Theme) Theme {
	switch stored {
	case ThemeLight, ThemeDark:
		return stored
	}

	if systemScheme == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Manager loads and persists the theme preference.
type Manager struct {
	env   Environment
	store SettingsStore

	preference Theme
	system     Theme
}

// NewManager reads the environment once and captures the startup state.
func NewManager(ctx context.Context, env Environment, store SettingsStore) (*Manager, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	m := &Manager{env: env, store: store, preference: ThemeSystem, system: ThemeLight}
	if env == nil {
		return m, nil
	}

	m.system = env.SystemScheme()

	raw, err := env.StoredTheme(ctx)
	if err != nil {
		return nil, fmt.Errorf("read stored theme: %w", err)
	}
	if raw != "" {
		theme, err := ParseTheme(raw)
		if err != nil {
			// A corrupt stored value falls back to the system default.
			return m, nil
		}
		m.preference = theme
	}

	return m, nil
}

// Preference returns the stored preference, ThemeSystem when none is set.
func (m *Manager) Preference() Theme {
	if m == nil {
		return ThemeSystem
	}
	return m.preference
}

// Effective returns the theme to display after resolving the system default.
func (m *Manager) Effective() Theme {
	if m == nil {
		return ThemeLight
	}
	return Resolve(m.preference, m.system)
}

// Set persists a new preference. Setting ThemeSystem clears the explicit
// choice and reverts to the system scheme.
func (m *Manager) Set(ctx context.Context, theme Theme) error {
	if m == nil {
		return fmt.Errorf("theme manager is not initialized")
	}

	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}

	if m.store != nil {
		if err := m.store.SetLocalSetting(ctx, themeSettingKey, string(theme)); err != nil {
			return fmt.Errorf("persist theme: %w", err)
		}
	}

	m.preference = theme
	return nil
}
