package service_test

import (
	"testing"
	"time"

	"playgate/internal/playgate/service"
	"playgate/internal/playgate/store"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts.UTC()
}

func TestResolve_AbsentRecord_NoPlay(t *testing.T) {
	now := mustTime(t, "2025-01-01T18:30:00Z")

	for _, hasAccess := range []bool{false, true} {
		view := service.Resolve(store.PlayRecord{}, false, hasAccess, now)
		if view.State != service.StateNoPlay {
			t.Errorf("hasAccess=%v: expected no_play, got %s", hasAccess, view.State)
		}
		if view.Countdown != nil {
			t.Errorf("hasAccess=%v: expected no countdown", hasAccess)
		}
	}
}

func TestResolve_EntitledCaller_AlwaysUnlocked(t *testing.T) {
	rec := store.PlayRecord{GameTime: mustTime(t, "2025-01-01T19:00:00Z")}

	// Access is never revoked by expiry: before, at, and long past
	// game start all resolve to unlocked.
	for _, now := range []string{
		"2025-01-01T10:00:00Z",
		"2025-01-01T19:00:00Z",
		"2025-03-01T00:00:00Z",
	} {
		view := service.Resolve(rec, true, true, mustTime(t, now))
		if view.State != service.StateUnlocked {
			t.Errorf("now=%s: expected unlocked, got %s", now, view.State)
		}
	}
}

func TestResolve_BeforeGameStart_LockedCountdown(t *testing.T) {
	rec := store.PlayRecord{GameTime: mustTime(t, "2025-01-01T19:00:00Z")}

	view := service.Resolve(rec, true, false, mustTime(t, "2025-01-01T18:30:00Z"))
	if view.State != service.StateLockedCountdown {
		t.Fatalf("expected locked_countdown, got %s", view.State)
	}
	if view.Countdown == nil {
		t.Fatal("expected a countdown")
	}
	if view.Countdown.Hours != 0 || view.Countdown.Minutes != 30 || view.Countdown.Seconds != 0 {
		t.Errorf("expected 00:30:00, got %02d:%02d:%02d",
			view.Countdown.Hours, view.Countdown.Minutes, view.Countdown.Seconds)
	}
}

func TestResolve_CountdownDecomposition(t *testing.T) {
	gameTime := mustTime(t, "2025-01-01T19:00:00Z")
	rec := store.PlayRecord{GameTime: gameTime}

	// h*3600 + m*60 + s must equal the floored remaining seconds for a
	// spread of offsets, including sub-second remainders.
	offsets := []time.Duration{
		1 * time.Second,
		59 * time.Second,
		61 * time.Second,
		59*time.Minute + 59*time.Second,
		1 * time.Hour,
		26*time.Hour + 3*time.Minute + 7*time.Second,
		90*time.Minute + 500*time.Millisecond,
	}
	for _, offset := range offsets {
		now := gameTime.Add(-offset)
		view := service.Resolve(rec, true, false, now)
		if view.State != service.StateLockedCountdown {
			t.Fatalf("offset %s: expected locked_countdown, got %s", offset, view.State)
		}

		got := view.Countdown.Hours*3600 + view.Countdown.Minutes*60 + view.Countdown.Seconds
		want := int(gameTime.Sub(now) / time.Second)
		if got != want {
			t.Errorf("offset %s: decomposed to %d seconds, want %d", offset, got, want)
		}
		if view.Countdown.Minutes > 59 || view.Countdown.Seconds > 59 {
			t.Errorf("offset %s: un-normalized countdown %+v", offset, view.Countdown)
		}
	}
}

func TestResolve_AtOrAfterGameStart_LockedExpired(t *testing.T) {
	rec := store.PlayRecord{GameTime: mustTime(t, "2025-01-01T19:00:00Z")}

	for _, now := range []string{
		"2025-01-01T19:00:00Z", // exactly at game start
		"2025-01-01T19:00:01Z",
		"2025-06-01T00:00:00Z", // far past
	} {
		view := service.Resolve(rec, true, false, mustTime(t, now))
		if view.State != service.StateLockedExpired {
			t.Errorf("now=%s: expected locked_expired, got %s", now, view.State)
		}
		if view.Countdown != nil {
			t.Errorf("now=%s: expected no countdown", now)
		}
	}
}
