package store

import (
	"context"
	"time"
)

// PlayRecord is the single persisted entity: today's pick.  Exactly one
// record exists at a time; every write replaces it wholesale.
type PlayRecord struct {
	ImageBase64 string
	GameTime    time.Time
	Title       string
	UpdatedAt   time.Time
}

// PlayStore persists the singleton play record.
//
// Get distinguishes absence from failure: (zero, false, nil) means no
// record is stored, which is a normal state and not an error.  Put always
// replaces the full record.  Delete is idempotent; removing a record
// that does not exist succeeds.
type PlayStore interface {
	Get(ctx context.Context) (PlayRecord, bool, error)
	Put(ctx context.Context, rec PlayRecord) error
	Delete(ctx context.Context) error
}
