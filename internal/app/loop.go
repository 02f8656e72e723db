package app

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
)

// Run ticks the render loop until ctx is done. Each tick reads the latest
// pose, advances the editor and fans the frame out to subscribers.
func (a *App) Run(ctx context.Context) {
	defer sentry.Recover()

	ticker := time.NewTicker(time.Second / time.Duration(a.config.RenderFPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.publish(a.Advance(now, a.pose.Load()))
		}
	}
}

// Subscribe returns a channel of render frames and a function that ends the
// subscription. Slow subscribers only ever see the newest frame.
func (a *App) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, 1)

	a.subMu.Lock()
	a.subs[ch] = struct{}{}
	a.subMu.Unlock()

	cancel := func() {
		a.subMu.Lock()
		defer a.subMu.Unlock()
		if _, ok := a.subs[ch]; ok {
			delete(a.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Subscribers returns the number of active subscriptions.
func (a *App) Subscribers() int {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	return len(a.subs)
}

func (a *App) publish(f Frame) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	for ch := range a.subs {
		select {
		case ch <- f:
			continue
		default:
		}
		// Drop the stale frame so the newest one fits.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- f:
		default:
		}
	}
}
