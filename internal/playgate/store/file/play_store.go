// Package file keeps the play record in a single flat JSON file.  It is
// the zero-dependency deployment variant: one record, one file, replaced
// atomically on every publish.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"playgate/internal/playgate/store"
)

type PlayStore struct {
	path string
}

func NewPlayStore(path string) *PlayStore {
	return &PlayStore{path: path}
}

// stored is the on-disk JSON shape, matching the wire field names.
type stored struct {
	ImageBase64 string `json:"imageBase64"`
	GameTime    string `json:"gameTime"`
	Title       string `json:"title"`
	UpdatedAt   string `json:"updatedAt"`
}

func (s *PlayStore) Get(_ context.Context) (store.PlayRecord, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return store.PlayRecord{}, false, nil
	}
	if err != nil {
		return store.PlayRecord{}, false, fmt.Errorf("read play file: %w", err)
	}

	var raw stored
	if err := json.Unmarshal(data, &raw); err != nil {
		return store.PlayRecord{}, false, fmt.Errorf("decode play file: %w", err)
	}

	gameTime, err := time.Parse(time.RFC3339, raw.GameTime)
	if err != nil {
		return store.PlayRecord{}, false, fmt.Errorf("decode play file gameTime: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, raw.UpdatedAt)
	if err != nil {
		return store.PlayRecord{}, false, fmt.Errorf("decode play file updatedAt: %w", err)
	}

	return store.PlayRecord{
		ImageBase64: raw.ImageBase64,
		GameTime:    gameTime.UTC(),
		Title:       raw.Title,
		UpdatedAt:   updatedAt.UTC(),
	}, true, nil
}

func (s *PlayStore) Put(_ context.Context, rec store.PlayRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(stored{
		ImageBase64: rec.ImageBase64,
		GameTime:    rec.GameTime.UTC().Format(time.RFC3339),
		Title:       rec.Title,
		UpdatedAt:   rec.UpdatedAt.UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode play file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir play dir: %w", err)
	}

	// Write-then-rename so readers never observe a partial record.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write play file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename play file: %w", err)
	}
	return nil
}

func (s *PlayStore) Delete(_ context.Context) error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove play file: %w", err)
	}
	return nil
}
