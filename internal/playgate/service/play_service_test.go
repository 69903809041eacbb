package service_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"playgate/internal/playgate/service"
	"playgate/internal/playgate/store"
	"playgate/internal/playgate/store/memory"
	"playgate/internal/playgate/types"
)

// captureDispatcher records notification calls on a channel so tests can
// wait for the fire-and-forget goroutine.
type captureDispatcher struct {
	calls chan string
	err   error
}

func newCaptureDispatcher(err error) *captureDispatcher {
	return &captureDispatcher{calls: make(chan string, 4), err: err}
}

func (d *captureDispatcher) NotifyPlayPublished(_ context.Context, playTitle string) error {
	d.calls <- playTitle
	return d.err
}

// failingStore errors on every operation, for fail-soft and surfacing tests.
type failingStore struct{}

func (failingStore) Get(context.Context) (store.PlayRecord, bool, error) {
	return store.PlayRecord{}, false, errors.New("store unreachable")
}
func (failingStore) Put(context.Context, store.PlayRecord) error {
	return errors.New("store unreachable")
}
func (failingStore) Delete(context.Context) error {
	return errors.New("store unreachable")
}

func newTestPlayService(st store.PlayStore, d *captureDispatcher) *service.PlayService {
	return service.NewPlayService(st, d, log.New(io.Discard, "", 0))
}

func TestPublish_RoundTrip(t *testing.T) {
	st := memory.NewPlayStore()
	svc := newTestPlayService(st, newCaptureDispatcher(nil))

	before := time.Now().UTC()
	rec, err := svc.Publish(context.Background(), types.PublishRequest{
		ImageBase64: "data:image/jpeg;base64,abc123",
		GameTime:    "2025-01-01T19:00:00Z",
		Title:       "Duke -9.5",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got, present := svc.Current(context.Background())
	if !present {
		t.Fatal("expected a record after publish")
	}
	if got.ImageBase64 != "data:image/jpeg;base64,abc123" {
		t.Errorf("image mismatch: %q", got.ImageBase64)
	}
	if !got.GameTime.Equal(rec.GameTime) {
		t.Errorf("game time mismatch: %s vs %s", got.GameTime, rec.GameTime)
	}
	if got.Title != "Duke -9.5" {
		t.Errorf("title mismatch: %q", got.Title)
	}
	if got.UpdatedAt.Before(before) {
		t.Errorf("UpdatedAt %s is before publish time %s", got.UpdatedAt, before)
	}
}

func TestPublish_DefaultsTitle(t *testing.T) {
	st := memory.NewPlayStore()
	svc := newTestPlayService(st, newCaptureDispatcher(nil))

	_, err := svc.Publish(context.Background(), types.PublishRequest{
		ImageBase64: "X",
		GameTime:    "2025-01-01T19:00:00Z",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got, _ := svc.Current(context.Background())
	if got.Title != service.DefaultTitle {
		t.Errorf("expected default title %q, got %q", service.DefaultTitle, got.Title)
	}
}

func TestPublish_AcceptsDatetimeLocalFormat(t *testing.T) {
	st := memory.NewPlayStore()
	svc := newTestPlayService(st, newCaptureDispatcher(nil))

	rec, err := svc.Publish(context.Background(), types.PublishRequest{
		ImageBase64: "X",
		GameTime:    "2025-01-01T19:00",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	want := time.Date(2025, 1, 1, 19, 0, 0, 0, time.UTC)
	if !rec.GameTime.Equal(want) {
		t.Errorf("expected %s, got %s", want, rec.GameTime)
	}
}

func TestPublish_ValidationFailures(t *testing.T) {
	svc := newTestPlayService(memory.NewPlayStore(), newCaptureDispatcher(nil))

	cases := []struct {
		name string
		req  types.PublishRequest
		want error
	}{
		{"missing image", types.PublishRequest{GameTime: "2025-01-01T19:00:00Z"}, service.ErrImageRequired},
		{"blank image", types.PublishRequest{ImageBase64: "  ", GameTime: "2025-01-01T19:00:00Z"}, service.ErrImageRequired},
		{"missing game time", types.PublishRequest{ImageBase64: "X"}, service.ErrGameTimeRequired},
		{"bad game time", types.PublishRequest{ImageBase64: "X", GameTime: "tonight"}, service.ErrBadGameTime},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Publish(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPublish_ReplacesWholeRecord(t *testing.T) {
	st := memory.NewPlayStore()
	svc := newTestPlayService(st, newCaptureDispatcher(nil))

	if _, err := svc.Publish(context.Background(), types.PublishRequest{
		ImageBase64: "first", GameTime: "2025-01-01T19:00:00Z", Title: "First",
	}); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if _, err := svc.Publish(context.Background(), types.PublishRequest{
		ImageBase64: "second", GameTime: "2025-01-02T21:00:00Z",
	}); err != nil {
		t.Fatalf("second publish: %v", err)
	}

	got, _ := svc.Current(context.Background())
	if got.ImageBase64 != "second" {
		t.Errorf("expected second image, got %q", got.ImageBase64)
	}
	// No merge: the omitted title falls back to the default, it does not
	// inherit "First".
	if got.Title != service.DefaultTitle {
		t.Errorf("expected default title after overwrite, got %q", got.Title)
	}
}

func TestPublish_DispatchesNotification(t *testing.T) {
	d := newCaptureDispatcher(nil)
	svc := newTestPlayService(memory.NewPlayStore(), d)

	if _, err := svc.Publish(context.Background(), types.PublishRequest{
		ImageBase64: "X", GameTime: "2025-01-01T19:00:00Z", Title: "Celtics ML",
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case title := <-d.calls:
		if title != "Celtics ML" {
			t.Errorf("expected notification for Celtics ML, got %q", title)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification dispatch")
	}
}

func TestPublish_NotificationFailureDoesNotFailPublish(t *testing.T) {
	d := newCaptureDispatcher(errors.New("push service down"))
	svc := newTestPlayService(memory.NewPlayStore(), d)

	_, err := svc.Publish(context.Background(), types.PublishRequest{
		ImageBase64: "X", GameTime: "2025-01-01T19:00:00Z",
	})
	if err != nil {
		t.Fatalf("expected publish to succeed, got %v", err)
	}
	<-d.calls // dispatch was attempted exactly once

	if _, present := svc.Current(context.Background()); !present {
		t.Error("expected the record to be stored despite notify failure")
	}
}

func TestPublish_StorageFailureSurfaced(t *testing.T) {
	d := newCaptureDispatcher(nil)
	svc := newTestPlayService(failingStore{}, d)

	_, err := svc.Publish(context.Background(), types.PublishRequest{
		ImageBase64: "X", GameTime: "2025-01-01T19:00:00Z",
	})
	if err == nil {
		t.Fatal("expected a storage error")
	}

	select {
	case <-d.calls:
		t.Error("no notification should fire on a failed publish")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestCurrent_StorageFailureDegradesToAbsent(t *testing.T) {
	svc := newTestPlayService(failingStore{}, newCaptureDispatcher(nil))

	_, present := svc.Current(context.Background())
	if present {
		t.Error("expected absent on storage failure")
	}
}

func TestRemove_Idempotent(t *testing.T) {
	st := memory.NewPlayStore()
	svc := newTestPlayService(st, newCaptureDispatcher(nil))

	if _, err := svc.Publish(context.Background(), types.PublishRequest{
		ImageBase64: "X", GameTime: "2025-01-01T19:00:00Z",
	}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if err := svc.Remove(context.Background()); err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	if err := svc.Remove(context.Background()); err != nil {
		t.Fatalf("second Remove should be a no-op success, got %v", err)
	}

	if _, present := svc.Current(context.Background()); present {
		t.Error("expected absent after delete")
	}
}
