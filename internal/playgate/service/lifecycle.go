package service

import (
	"time"

	"playgate/internal/playgate/store"
	"playgate/internal/playgate/types"
)

// State is the user-visible lifecycle state of the current play.
type State string

const (
	// StateNoPlay means no record exists; only an admin publish leaves it.
	StateNoPlay State = "no_play"
	// StateLockedCountdown means a play exists, the caller is not
	// entitled, and game start is still in the future.
	StateLockedCountdown State = "locked_countdown"
	// StateLockedExpired means a play exists, the caller is not entitled,
	// and game start has passed.
	StateLockedExpired State = "locked_expired"
	// StateUnlocked means the caller is entitled; time never re-locks it.
	StateUnlocked State = "unlocked"
)

// View is the resolved display state plus the countdown when one applies.
type View struct {
	State     State
	Countdown *types.Countdown
}

// Resolve derives the display state from the stored record, the caller's
// entitlement, and wall-clock time.  It is a pure function with no memory
// of prior states: callers recompute it on every poll, which keeps the
// countdown driftless and the whole flow restart-safe.
func Resolve(rec store.PlayRecord, present bool, hasAccess bool, now time.Time) View {
	if !present {
		return View{State: StateNoPlay}
	}
	if hasAccess {
		return View{State: StateUnlocked}
	}
	if now.Before(rec.GameTime) {
		return View{
			State:     StateLockedCountdown,
			Countdown: countdownUntil(rec.GameTime, now),
		}
	}
	return View{State: StateLockedExpired}
}

// countdownUntil decomposes the remaining duration into h/m/s by integer
// floor division.  Callers guarantee now < target.
func countdownUntil(target, now time.Time) *types.Countdown {
	total := int(target.Sub(now) / time.Second)
	return &types.Countdown{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}
