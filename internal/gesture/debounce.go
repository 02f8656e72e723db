package gesture

import "time"

// DefaultCooldown is the minimum time between two accepted pinch triggers.
// It is what stops a held pinch from placing a voxel on every frame.
const DefaultCooldown = 400 * time.Millisecond

// Debouncer converts a per-frame pinch signal into discrete triggers.
// It is a value type: Advance returns the next state instead of mutating.
type Debouncer struct {
	// LastAccepted is the time of the last accepted trigger. The zero time
	// means nothing has been accepted yet.
	LastAccepted time.Time
	Cooldown     time.Duration
}

// NewDebouncer returns a debouncer with the given cooldown; non-positive
// values use DefaultCooldown.
func NewDebouncer(cooldown time.Duration) Debouncer {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return Debouncer{Cooldown: cooldown}
}

// Advance evaluates one frame. It fires when g is a pinch and strictly more
// than Cooldown has passed since the last accepted trigger; firing records now.
func (d Debouncer) Advance(now time.Time, g Gesture) (Debouncer, bool) {
	if g != Pinch {
		return d, false
	}
	if !d.LastAccepted.IsZero() && now.Sub(d.LastAccepted) <= d.cooldown() {
		return d, false
	}
	d.LastAccepted = now
	return d, true
}

func (d Debouncer) cooldown() time.Duration {
	if d.Cooldown <= 0 {
		return DefaultCooldown
	}
	return d.Cooldown
}
