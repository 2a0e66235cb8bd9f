package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"warboard/internal/domain"

	"github.com/rs/zerolog"
)

// FileTagStore keeps the tag list in a single JSON file. Mutations inside
// one process are serialized; separate processes writing the same file
// still race and the last write wins.
type FileTagStore struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

func NewFileTagStore(path string, logger zerolog.Logger) *FileTagStore {
	return &FileTagStore{
		path:   path,
		logger: logger.With().Str("store", "file").Str("path", path).Logger(),
	}
}

func (s *FileTagStore) Read(ctx context.Context) (domain.TagList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileTagStore) AddTag(ctx context.Context, tag string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return false, err
	}
	if slices.Contains(data.Tags, tag) {
		return false, nil
	}
	data.Tags = append(data.Tags, tag)
	if err := s.write(data); err != nil {
		return false, err
	}
	s.logger.Info().Str("tag", tag).Msg("tag added")
	return true, nil
}

func (s *FileTagStore) RemoveTag(ctx context.Context, tag string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return false, err
	}
	before := len(data.Tags)
	data.Tags = removeAll(data.Tags, tag)
	if len(data.Tags) == before {
		return false, nil
	}
	if err := s.write(data); err != nil {
		return false, err
	}
	s.logger.Info().Str("tag", tag).Msg("tag removed")
	return true, nil
}

func (s *FileTagStore) Reorder(ctx context.Context, tags []string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return false, err
	}
	data.Tags = slices.Clone(tags)
	if data.Tags == nil {
		data.Tags = []string{}
	}
	if err := s.write(data); err != nil {
		return false, err
	}
	s.logger.Info().Strs("tags", data.Tags).Msg("tags reordered")
	return true, nil
}

func (s *FileTagStore) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return false, err
	}
	data.Settings = data.Settings.Merge(patch)
	if err := s.write(data); err != nil {
		return false, err
	}
	s.logger.Info().Int("clans_per_row", data.Settings.ClansPerRow).Msg("settings updated")
	return true, nil
}

func (s *FileTagStore) Close() error {
	return nil
}

type fileData struct {
	Tags     []string         `json:"tags"`
	Settings *domain.Settings `json:"settings"`
}

func (s *FileTagStore) read() (domain.TagList, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.DefaultTagList(), nil
	}
	if err != nil {
		return domain.TagList{}, fmt.Errorf("read tag store: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return s.migrateLegacy(trimmed)
	}

	var stored fileData
	if err := json.Unmarshal(trimmed, &stored); err != nil {
		return domain.TagList{}, fmt.Errorf("decode tag store: %w", err)
	}

	data := domain.DefaultTagList()
	if stored.Tags != nil {
		data.Tags = stored.Tags
	}
	if stored.Settings != nil {
		data.Settings = *stored.Settings
	}
	return data, nil
}

// migrateLegacy upgrades the original bare-array format in place.
func (s *FileTagStore) migrateLegacy(raw []byte) (domain.TagList, error) {
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return domain.TagList{}, fmt.Errorf("decode legacy tag store: %w", err)
	}

	data := domain.DefaultTagList()
	if tags != nil {
		data.Tags = tags
	}
	if err := s.write(data); err != nil {
		return domain.TagList{}, err
	}
	s.logger.Info().Int("tags", len(tags)).Msg("migrated legacy tag list")
	return data, nil
}

func (s *FileTagStore) write(data domain.TagList) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tag store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create tag store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write tag store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace tag store: %w", err)
	}
	return nil
}
