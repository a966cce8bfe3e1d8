package settings

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/georgemunganga/shoestore/internal/modules/activity"
)

// Service is what the view layer needs from the settings store.
type Service interface {
	Load(ctx context.Context) Settings
	Current() Settings
	Save(ctx context.Context, partial Settings) (Settings, error)
}

// Store owns the current settings value.
type Store struct {
	mu      sync.Mutex
	repo    Repository
	bus     *activity.Bus
	logger  *zap.Logger
	current Settings
}

func NewStore(repo Repository, bus *activity.Bus, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, bus: bus, logger: logger, current: Defaults()}
}

// Load reads the stored document and merges it over the defaults. A missing
// document yields the defaults and nothing is written back; an unreadable one
// is logged and also yields the defaults.
func (s *Store) Load(ctx context.Context) Settings {
	stored, found, err := s.repo.Load(ctx)
	loaded := Defaults()
	switch {
	case err != nil:
		s.logger.Warn("settings unreadable, using defaults", zap.Error(err))
	case found:
		loaded = Merge(stored)
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
	return loaded
}

// Current returns the last loaded or saved settings.
func (s *Store) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Save fills blank fields with defaults, persists and then announces the change.
// When the write fails Current keeps returning the previous value.
func (s *Store) Save(ctx context.Context, partial Settings) (Settings, error) {
	next := partial.WithDefaults()

	s.mu.Lock()
	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		s.logger.Error("settings save failed", zap.Error(err))
		return s.Current(), err
	}
	s.current = next
	s.mu.Unlock()

	if err := s.bus.Emit(ctx, activity.Event{
		Topic: activity.TopicSettingsChanged,
		Verb:  "saved",
		Metadata: map[string]any{
			"title": next.Title,
		},
	}); err != nil {
		s.logger.Warn("settings change hook failed", zap.Error(err))
	}
	return next, nil
}
