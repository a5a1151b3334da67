package simpleblog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// BlogSettings is the application-wide configuration snapshot assembled from
// application-scope custom fields. Requests read an immutable snapshot;
// mutation happens only through ReloadSettings after a settings commit.
type BlogSettings struct {
	Title        string
	Theme        string
	ItemsPerPage int
	// Version increments on every reload; Loaded is the reload time.
	Version int64
	Loaded  time.Time
}

// settingsHolder publishes snapshots atomically. reloadMu serializes
// reloads so there is exactly one configuration-update entry point.
type settingsHolder struct {
	current  atomic.Pointer[BlogSettings]
	reloadMu sync.Mutex
	version  int64
}

func (h *settingsHolder) store(s BlogSettings) {
	h.current.Store(&s)
}

func (h *settingsHolder) init() {
	h.version = 1
	h.store(defaultSettings())
}

func (h *settingsHolder) load() BlogSettings {
	return *h.current.Load()
}

func defaultSettings() BlogSettings {
	return BlogSettings{
		Title:        DefaultBlogTitle,
		Theme:        DefaultTheme,
		ItemsPerPage: DefaultPageSize,
		Version:      1,
		Loaded:       time.Now().UTC(),
	}
}

// Settings returns the current configuration snapshot.
func (s *service) Settings() BlogSettings {
	return s.settings.load()
}

// ReloadSettings rebuilds the snapshot from the application-scope custom
// fields. Callers invoke it after committing a settings change; until then
// requests keep seeing the previous consistent snapshot.
func (s *service) ReloadSettings(ctx context.Context) error {
	s.settings.reloadMu.Lock()
	defer s.settings.reloadMu.Unlock()

	fields, err := s.GetFields(ctx, ScopeApplication, 0)
	if err != nil {
		return err
	}

	next := defaultSettings()
	if v := fields[FieldBlogTitle]; v != "" {
		next.Title = v
	}
	if v := fields[FieldBlogTheme]; v != "" {
		next.Theme = v
	}
	if n, err := s.GetIntField(ctx, ScopeApplication, 0, FieldItemsPerPage, DefaultPageSize); err == nil && n > 0 {
		next.ItemsPerPage = n
	}

	s.settings.version++
	next.Version = s.settings.version
	next.Loaded = time.Now().UTC()
	s.settings.store(next)
	return nil
}
