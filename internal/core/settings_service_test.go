package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reviewdesk-backend-go/internal/testutil"
)

func TestSettings_DefaultsAndMerge(t *testing.T) {
	store := testutil.NewDocStore()
	svc := NewSettingsService(store, zap.NewNop())
	ctx := context.Background()

	theme, err := svc.Get(ctx, SettingsHomeTheme)
	require.NoError(t, err)
	assert.Equal(t, "#2563eb", theme["primaryColor"])

	theme, err = svc.Update(ctx, SettingsHomeTheme, map[string]interface{}{"primaryColor": "#111111"})
	require.NoError(t, err)
	assert.Equal(t, "#111111", theme["primaryColor"])
	assert.Equal(t, "#0f172a", theme["secondaryColor"], "unset fields fall back to defaults")

	home, err := svc.Home(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#111111", home.Theme["primaryColor"])
	assert.NotEmpty(t, home.Content["heroTitle"])

	require.NoError(t, svc.Reset(ctx, SettingsHomeTheme))
	theme, err = svc.Get(ctx, SettingsHomeTheme)
	require.NoError(t, err)
	assert.Equal(t, "#2563eb", theme["primaryColor"])
}

func TestSettings_ResultDoesNotAliasDefaults(t *testing.T) {
	svc := NewSettingsService(testutil.NewDocStore(), zap.NewNop())
	ctx := context.Background()

	first, err := svc.Get(ctx, SettingsHomeContent)
	require.NoError(t, err)
	features, ok := first["features"].([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, features)
	want := features[0]
	features[0] = "tampered"

	second, err := svc.Get(ctx, SettingsHomeContent)
	require.NoError(t, err)
	assert.Equal(t, want, second["features"].([]interface{})[0])
}

func TestSettings_UnknownName(t *testing.T) {
	svc := NewSettingsService(testutil.NewDocStore(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Get(ctx, "pricing")
	assert.ErrorIs(t, err, ErrUnknownSettings)
	_, err = svc.Update(ctx, "pricing", map[string]interface{}{"a": 1})
	assert.ErrorIs(t, err, ErrUnknownSettings)
	assert.ErrorIs(t, svc.Reset(ctx, "pricing"), ErrUnknownSettings)
}

func TestSettings_StoreErrorServesDefaults(t *testing.T) {
	store := testutil.NewDocStore()
	store.GetErr = errors.New("deadline exceeded")
	svc := NewSettingsService(store, zap.NewNop())

	got, err := svc.Get(context.Background(), SettingsContactSettings)
	require.NoError(t, err)
	assert.Equal(t, "support@reviewdesk.app", got["email"])
}

func TestDeepMerge(t *testing.T) {
	base := map[string]interface{}{
		"a": 1,
		"nested": map[string]interface{}{"x": "base", "y": "base"},
		"list":   []interface{}{"one"},
	}
	overlay := map[string]interface{}{
		"nested": map[string]interface{}{"y": "over"},
		"list":   []interface{}{"two", "three"},
		"extra":  true,
	}

	got := deepMerge(base, overlay)
	assert.Equal(t, map[string]interface{}{
		"a":      1,
		"nested": map[string]interface{}{"x": "base", "y": "over"},
		"list":   []interface{}{"two", "three"},
		"extra":  true,
	}, got)

	// Inputs are not modified.
	assert.Equal(t, "base", base["nested"].(map[string]interface{})["y"])

	onlyBase := deepMerge(base, nil)
	onlyBase["list"].([]interface{})[0] = "changed"
	assert.Equal(t, "one", base["list"].([]interface{})[0])
}
