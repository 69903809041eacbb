package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "playgate/internal/db"
	"playgate/internal/playgate/store"
)

type PlayStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewPlayStore(db *sql.DB, writer *dbpkg.Worker) *PlayStore {
	return &PlayStore{db: db, writer: writer}
}

func (s *PlayStore) Get(ctx context.Context) (store.PlayRecord, bool, error) {
	var (
		image     string
		gameMs    int64
		title     string
		updatedMs int64
	)

	err := s.db.QueryRowContext(ctx, `
SELECT image_base64, game_time_ms, title, updated_at_ms
FROM play
WHERE id = 1;
`).Scan(&image, &gameMs, &title, &updatedMs)

	if err == sql.ErrNoRows {
		return store.PlayRecord{}, false, nil
	}
	if err != nil {
		return store.PlayRecord{}, false, fmt.Errorf("Get query: %w", err)
	}

	return store.PlayRecord{
		ImageBase64: image,
		GameTime:    time.UnixMilli(gameMs).UTC(),
		Title:       title,
		UpdatedAt:   time.UnixMilli(updatedMs).UTC(),
	}, true, nil
}

func (s *PlayStore) Put(ctx context.Context, rec store.PlayRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// Whole-record replacement of the singleton row.
		if _, err := tx.ExecContext(ctx, `
INSERT INTO play(id, image_base64, game_time_ms, title, updated_at_ms)
VALUES (1, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  image_base64  = excluded.image_base64,
  game_time_ms  = excluded.game_time_ms,
  title         = excluded.title,
  updated_at_ms = excluded.updated_at_ms;
`, rec.ImageBase64, rec.GameTime.UTC().UnixMilli(), rec.Title, rec.UpdatedAt.UTC().UnixMilli()); err != nil {
			return fmt.Errorf("Put upsert play: %w", err)
		}
		return nil
	})
}

func (s *PlayStore) Delete(ctx context.Context) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// Deleting an absent row is fine; DELETE is a no-op then.
		if _, err := tx.ExecContext(ctx, `DELETE FROM play WHERE id = 1;`); err != nil {
			return fmt.Errorf("Delete play: %w", err)
		}
		return nil
	})
}
