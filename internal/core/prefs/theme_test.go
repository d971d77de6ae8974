package prefs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	values map[string]string
	setErr error
}

func (f *fakeSettings) GetLocalSetting(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeSettings) SetLocalSetting(_ context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	f.values[key] = value
	return nil
}

type fakeEnv struct {
	scheme Theme
	stored string
	err    error
}

func (f fakeEnv) SystemScheme() Theme { return f.scheme }

func (f fakeEnv) StoredTheme(context.Context) (string, error) {
	return f.stored, f.err
}

func TestParseTheme(t *testing.T) {
	cases := []struct {
		input    string
		expected Theme
		ok       bool
	}{
		{"light", ThemeLight, true},
		{"dark", ThemeDark, true},
		{"system", ThemeSystem, true},
		{"  DARK  ", ThemeDark, true},
		{"", "", false},
		{"sepia", "", false},
	}

	for _, tc := range cases {
		theme, err := ParseTheme(tc.input)
		if tc.ok {
			require.NoError(t, err, "input %q", tc.input)
			assert.Equal(t, tc.expected, theme)
		} else {
			assert.Error(t, err, "input %q", tc.input)
		}
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, ThemeDark, Resolve(ThemeDark, ThemeLight))
	assert.Equal(t, ThemeLight, Resolve(ThemeLight, ThemeDark))
	assert.Equal(t, ThemeDark, Resolve(ThemeSystem, ThemeDark))
	assert.Equal(t, ThemeLight, Resolve(ThemeSystem, ThemeLight))
	assert.Equal(t, ThemeLight, Resolve("", ThemeLight))
}

func TestManagerDefaultsToSystem(t *testing.T) {
	m, err := NewManager(context.Background(), fakeEnv{scheme: ThemeDark}, nil)
	require.NoError(t, err)

	assert.Equal(t, ThemeSystem, m.Preference())
	assert.Equal(t, ThemeDark, m.Effective())
}

func TestManagerUsesStoredPreference(t *testing.T) {
	m, err := NewManager(context.Background(), fakeEnv{scheme: ThemeDark, stored: "light"}, nil)
	require.NoError(t, err)

	assert.Equal(t, ThemeLight, m.Preference())
	assert.Equal(t, ThemeLight, m.Effective())
}

func TestManagerIgnoresCorruptStoredValue(t *testing.T) {
	m, err := NewManager(context.Background(), fakeEnv{scheme: ThemeLight, stored: "sepia"}, nil)
	require.NoError(t, err)

	assert.Equal(t, ThemeSystem, m.Preference())
	assert.Equal(t, ThemeLight, m.Effective())
}

func TestManagerSetPersists(t *testing.T) {
	settings := &fakeSettings{}
	env := StoreEnvironment{Store: settings}

	m, err := NewManager(context.Background(), env, settings)
	require.NoError(t, err)

	require.NoError(t, m.Set(context.Background(), ThemeDark))
	assert.Equal(t, "dark", settings.values["theme"])
	assert.Equal(t, ThemeDark, m.Effective())

	// A reload sees the persisted choice.
	reloaded, err := NewManager(context.Background(), env, settings)
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, reloaded.Preference())
}

func TestManagerSetRejectsUnknownTheme(t *testing.T) {
	m, err := NewManager(context.Background(), fakeEnv{scheme: ThemeLight}, &fakeSettings{})
	require.NoError(t, err)

	assert.Error(t, m.Set(context.Background(), Theme("sepia")))
	assert.Equal(t, ThemeSystem, m.Preference())
}

func TestManagerSetSurfacesStoreError(t *testing.T) {
	settings := &fakeSettings{setErr: errors.New("disk full")}
	m, err := NewManager(context.Background(), fakeEnv{scheme: ThemeLight}, settings)
	require.NoError(t, err)

	err = m.Set(context.Background(), ThemeDark)
	require.Error(t, err)
	assert.Equal(t, ThemeSystem, m.Preference(), "preference unchanged on failed persist")
}
