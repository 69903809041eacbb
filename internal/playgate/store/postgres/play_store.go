// Package postgres backs the play store with a hosted Postgres database,
// for deployments where the server does not own local disk.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"playgate/internal/playgate/store"
)

type PlayStore struct {
	db *sql.DB
}

// Open connects to Postgres and ensures the play table exists.
func Open(ctx context.Context, dsn string) (*PlayStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS play (
  id SMALLINT PRIMARY KEY CHECK (id = 1),
  image_base64 TEXT NOT NULL,
  game_time TIMESTAMPTZ NOT NULL,
  title TEXT NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure play table: %w", err)
	}

	return &PlayStore{db: db}, nil
}

func (s *PlayStore) Close() error { return s.db.Close() }

func (s *PlayStore) Get(ctx context.Context) (store.PlayRecord, bool, error) {
	var rec store.PlayRecord

	err := s.db.QueryRowContext(ctx, `
SELECT image_base64, game_time, title, updated_at
FROM play
WHERE id = 1;
`).Scan(&rec.ImageBase64, &rec.GameTime, &rec.Title, &rec.UpdatedAt)

	if err == sql.ErrNoRows {
		return store.PlayRecord{}, false, nil
	}
	if err != nil {
		return store.PlayRecord{}, false, fmt.Errorf("Get query: %w", err)
	}

	rec.GameTime = rec.GameTime.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, true, nil
}

func (s *PlayStore) Put(ctx context.Context, rec store.PlayRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	if _, err := s.db.ExecContext(ctx, `
INSERT INTO play(id, image_base64, game_time, title, updated_at)
VALUES (1, $1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
  image_base64 = EXCLUDED.image_base64,
  game_time    = EXCLUDED.game_time,
  title        = EXCLUDED.title,
  updated_at   = EXCLUDED.updated_at;
`, rec.ImageBase64, rec.GameTime.UTC(), rec.Title, rec.UpdatedAt.UTC()); err != nil {
		return fmt.Errorf("Put upsert play: %w", err)
	}
	return nil
}

func (s *PlayStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM play WHERE id = 1;`); err != nil {
		return fmt.Errorf("Delete play: %w", err)
	}
	return nil
}
