package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"reviewdesk-backend-go/pkg/database"
)

const settingsCollection = "settings"

// Settings document names.
const (
	SettingsHomeContent     = "homeContent"
	SettingsHomeTheme       = "homeTheme"
	SettingsAboutContent    = "aboutContent"
	SettingsCareerSettings  = "careerSettings"
	SettingsContactSettings = "contactSettings"
)

// settingsDefaults is served when a document, or a field in it, has never been saved.
var settingsDefaults = map[string]map[string]interface{}{
	SettingsHomeContent: {
		"heroTitle":    "Turn every customer into a five-star review",
		"heroSubtitle": "Collect, monitor and answer reviews for all your branches in one place.",
		"ctaText":      "Start your free trial",
		"features": []interface{}{
			"Sharable review links",
			"Review monitoring across branches",
			"Login activity and device history",
		},
	},
	SettingsHomeTheme: {
		"primaryColor":   "#2563eb",
		"secondaryColor": "#0f172a",
		"accentColor":    "#f59e0b",
		"fontFamily":     "Inter, sans-serif",
		"darkMode":       false,
	},
	SettingsAboutContent: {
		"title":   "About us",
		"mission": "Help local businesses earn and keep their customers' trust.",
		"story":   "",
	},
	SettingsCareerSettings: {
		"headline":     "Join our team",
		"intro":        "We are always looking for people who care about small businesses.",
		"showOpenings": true,
	},
	SettingsContactSettings: {
		"email":        "support@reviewdesk.app",
		"phone":        "",
		"address":      "",
		"supportHours": "Mon-Fri 9:00-18:00",
	},
}

// HomeSettings is the pair of documents needed to render the landing page.
type HomeSettings struct {
	Content map[string]interface{} `json:"content"`
	Theme   map[string]interface{} `json:"theme"`
}

type settingsService struct {
	store  database.FirestoreDB
	logger *zap.Logger
}

// NewSettingsService creates a SettingsService over a loosely typed document store.
func NewSettingsService(store database.FirestoreDB, logger *zap.Logger) SettingsService {
	return &settingsService{store: store, logger: logger}
}

// Get returns the stored document merged over its defaults. A missing or unreadable
// document yields the defaults alone.
func (s *settingsService) Get(ctx context.Context, name string) (map[string]interface{}, error) {
	defaults, ok := settingsDefaults[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSettings, name)
	}
	stored, err := s.store.Get(ctx, settingsCollection, name)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			s.logger.Warn("Failed to load settings, serving defaults", zap.String("name", name), zap.Error(err))
		}
		return deepMerge(defaults, nil), nil
	}
	return deepMerge(defaults, stored), nil
}

// Home loads homeContent and homeTheme concurrently.
func (s *settingsService) Home(ctx context.Context) (*HomeSettings, error) {
	var home HomeSettings
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		home.Content, err = s.Get(gctx, SettingsHomeContent)
		return err
	})
	g.Go(func() error {
		var err error
		home.Theme, err = s.Get(gctx, SettingsHomeTheme)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &home, nil
}

// Update merges patch into the stored document and returns the effective settings.
func (s *settingsService) Update(ctx context.Context, name string, patch map[string]interface{}) (map[string]interface{}, error) {
	if _, ok := settingsDefaults[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSettings, name)
	}
	if err := s.store.Merge(ctx, settingsCollection, name, patch); err != nil {
		return nil, err
	}
	s.logger.Info("Settings updated", zap.String("name", name), zap.Int("fields", len(patch)))
	return s.Get(ctx, name)
}

// Reset deletes the stored document so defaults apply again.
func (s *settingsService) Reset(ctx context.Context, name string) error {
	if _, ok := settingsDefaults[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSettings, name)
	}
	return s.store.Delete(ctx, settingsCollection, name)
}

// deepMerge returns a new map with overlay applied on top of base. Nested maps are
// merged recursively; any other overlay value replaces the base value. The result
// shares no maps or slices with either input.
func deepMerge(base, overlay map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(overlay))
	for k, v := range base {
		out[k] = copyValue(v)
	}
	for k, v := range overlay {
		om, overlayIsMap := v.(map[string]interface{})
		bm, baseIsMap := out[k].(map[string]interface{})
		if overlayIsMap && baseIsMap {
			out[k] = deepMerge(bm, om)
			continue
		}
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return deepMerge(t, nil)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
