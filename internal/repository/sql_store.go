package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"warboard/internal/constants"
	"warboard/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// SQLTagStore keeps the tag list in SQLite. Each mutation runs in its own
// transaction, so concurrent writers do not lose updates.
type SQLTagStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSQLTagStore(sqlDB *sql.DB, logger zerolog.Logger) *SQLTagStore {
	return &SQLTagStore{
		db:     sqlDB,
		logger: logger.With().Str("store", "sqlite").Logger(),
	}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLTagStore) Read(ctx context.Context) (domain.TagList, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return readTagList(ctx, s.db)
}

func (s *SQLTagStore) AddTag(ctx context.Context, tag string) (bool, error) {
	added := false
	err := s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM clan_tags WHERE tag = ?`, tag).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check tag: %w", err)
		}
		if exists > 0 {
			return nil
		}

		var next int
		err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM clan_tags`).Scan(&next)
		if err != nil {
			return fmt.Errorf("failed to get next position: %w", err)
		}
		if err := insertTag(ctx, tx, tag, next); err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if added {
		s.logger.Info().Str("tag", tag).Msg("tag added")
	}
	return added, nil
}

func (s *SQLTagStore) RemoveTag(ctx context.Context, tag string) (bool, error) {
	removed := false
	err := s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM clan_tags WHERE tag = ?`, tag)
		if err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		removed = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info().Str("tag", tag).Msg("tag removed")
	}
	return removed, nil
}

func (s *SQLTagStore) Reorder(ctx context.Context, tags []string) (bool, error) {
	err := s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM clan_tags`); err != nil {
			return fmt.Errorf("failed to clear tags: %w", err)
		}
		for i, tag := range tags {
			if err := insertTag(ctx, tx, tag, i); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	s.logger.Info().Strs("tags", tags).Msg("tags reordered")
	return true, nil
}

func (s *SQLTagStore) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (bool, error) {
	var merged domain.Settings
	err := s.withTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		current, err := readSettings(ctx, tx)
		if err != nil {
			return err
		}
		merged = current.Merge(patch)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO display_settings (id, clans_per_row, updated_at) VALUES (1, ?, ?)
			ON CONFLICT(id) DO UPDATE SET clans_per_row = excluded.clans_per_row, updated_at = excluded.updated_at`,
			merged.ClansPerRow, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	s.logger.Info().Int("clans_per_row", merged.ClansPerRow).Msg("settings updated")
	return true, nil
}

func (s *SQLTagStore) Close() error {
	return s.db.Close()
}

func (s *SQLTagStore) withTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

func insertTag(ctx context.Context, tx *sql.Tx, tag string, position int) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate nanoid: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO clan_tags (id, tag, position, created_at) VALUES (?, ?, ?, ?)`,
		id, tag, position, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert tag %s: %w", tag, err)
	}
	return nil
}

func readTagList(ctx context.Context, q queryer) (domain.TagList, error) {
	rows, err := q.QueryContext(ctx, `SELECT tag FROM clan_tags ORDER BY position, created_at`)
	if err != nil {
		return domain.TagList{}, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	data := domain.DefaultTagList()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return domain.TagList{}, err
		}
		data.Tags = append(data.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return domain.TagList{}, err
	}

	settings, err := readSettings(ctx, q)
	if err != nil {
		return domain.TagList{}, err
	}
	data.Settings = settings
	return data, nil
}

func readSettings(ctx context.Context, q queryer) (domain.Settings, error) {
	settings := domain.Settings{ClansPerRow: domain.DefaultClansPerRow}
	err := q.QueryRowContext(ctx, `SELECT clans_per_row FROM display_settings WHERE id = 1`).Scan(&settings.ClansPerRow)
	if errors.Is(err, sql.ErrNoRows) {
		return settings, nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	return settings, nil
}
