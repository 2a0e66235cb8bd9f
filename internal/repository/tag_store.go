package repository

import (
	"context"
	"fmt"
	"warboard/internal/config"
	"warboard/internal/database"
	"warboard/internal/domain"

	"github.com/rs/zerolog"
)

// TagStore persists the ordered list of tracked clan tags and the display
// settings. Every mutation is persisted before it returns.
type TagStore interface {
	Read(ctx context.Context) (domain.TagList, error)
	AddTag(ctx context.Context, tag string) (bool, error)
	RemoveTag(ctx context.Context, tag string) (bool, error)
	Reorder(ctx context.Context, tags []string) (bool, error)
	UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (bool, error)
	Close() error
}

func NewTagStore(cfg *config.Config, logger zerolog.Logger) (TagStore, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverSQLite:
		db, err := database.New(cfg.DBPath, logger)
		if err != nil {
			return nil, err
		}
		return NewSQLTagStore(db, logger), nil
	case config.StoreDriverFile, "":
		return NewFileTagStore(cfg.StorePath, logger), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func removeAll(tags []string, tag string) []string {
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	return kept
}
