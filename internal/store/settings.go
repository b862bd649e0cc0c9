package store

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Sanket-2736/newsreader/internal/kv"
)

// Settings is the small persisted preference blob under app_settings.
type Settings struct {
	Theme   string `json:"theme,omitempty"`
	Country string `json:"country,omitempty"`
}

// SettingsStore persists Settings through the shared key-value substrate.
type SettingsStore struct {
	kv  kv.Store
	log *zap.Logger
}

func NewSettingsStore(store kv.Store, log *zap.Logger) *SettingsStore {
	return &SettingsStore{kv: store, log: log}
}

func (s *SettingsStore) Load(ctx context.Context) Settings {
	raw, ok, err := s.kv.Get(ctx, settingsKey)
	if err != nil {
		s.log.Warn("reading settings", zap.Error(err))
		return Settings{}
	}
	if !ok {
		return Settings{}
	}
	var settings Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.log.Warn("decoding settings", zap.Error(err))
		return Settings{}
	}
	return settings
}

func (s *SettingsStore) Save(ctx context.Context, settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, settingsKey, string(data))
}
