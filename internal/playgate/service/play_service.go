package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"playgate/internal/notify"
	"playgate/internal/playgate/store"
	"playgate/internal/playgate/types"
)

// DefaultTitle is used when the admin publishes a play without one.
const DefaultTitle = "Max Bet Play of the Day"

var (
	ErrImageRequired    = errors.New("imageBase64 is required")
	ErrGameTimeRequired = errors.New("gameTime is required")
	ErrBadGameTime      = errors.New("gameTime is not a recognized timestamp")
)

// gameTimeLayouts are accepted publish formats: RFC 3339 from API clients
// and the zoneless datetime-local format that admin form inputs produce
// (interpreted as UTC).
var gameTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// PlayService owns the play record lifecycle: fail-soft reads for the
// public page, validated whole-record publishes, idempotent deletes, and
// the post-publish notification dispatch.
type PlayService struct {
	store    store.PlayStore
	notifier notify.Dispatcher
	logger   *log.Logger
	now      func() time.Time
}

func NewPlayService(st store.PlayStore, notifier notify.Dispatcher, logger *log.Logger) *PlayService {
	return &PlayService{
		store:    st,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Current returns the stored play, or absent.  Storage failures and
// malformed records degrade to absent rather than erroring: the public
// page must keep rendering when the backing store hiccups.
func (s *PlayService) Current(ctx context.Context) (store.PlayRecord, bool) {
	rec, present, err := s.store.Get(ctx)
	if err != nil {
		s.logger.Printf("play read degraded to absent: %v", err)
		return store.PlayRecord{}, false
	}
	return rec, present
}

// Publish validates the request, stamps UpdatedAt, replaces the singleton
// record, and fires the publish notification.  The notification is
// fire-and-forget: its failure never reaches the admin caller.
func (s *PlayService) Publish(ctx context.Context, req types.PublishRequest) (store.PlayRecord, error) {
	image := strings.TrimSpace(req.ImageBase64)
	if image == "" {
		return store.PlayRecord{}, ErrImageRequired
	}

	rawGameTime := strings.TrimSpace(req.GameTime)
	if rawGameTime == "" {
		return store.PlayRecord{}, ErrGameTimeRequired
	}
	gameTime, err := parseGameTime(rawGameTime)
	if err != nil {
		return store.PlayRecord{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DefaultTitle
	}

	rec := store.PlayRecord{
		ImageBase64: image,
		GameTime:    gameTime,
		Title:       title,
		UpdatedAt:   s.now(),
	}

	if err := s.store.Put(ctx, rec); err != nil {
		return store.PlayRecord{}, err
	}

	// One attempt, off the critical path, on a detached context so the
	// admin response does not wait on (or cancel) the downstream call.
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.NotifyPlayPublished(notifyCtx, rec.Title); err != nil {
			s.logger.Printf("publish notification failed: %v", err)
		}
	}()

	return rec, nil
}

// Remove deletes the current play.  Removing an absent record succeeds.
func (s *PlayService) Remove(ctx context.Context) error {
	return s.store.Delete(ctx)
}

func parseGameTime(raw string) (time.Time, error) {
	for _, layout := range gameTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrBadGameTime
}
