package timer

import (
	"context"
	"time"
)

// Drive ticks loop every interval until the engine retires it or ctx is
// done. It is the headless counterpart of the TUI tick command.
func Drive(ctx context.Context, e *Engine, loop Loop, interval time.Duration) error {
	if interval <= 0 {
		interval = TickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !e.Tick(loop) {
				return nil
			}
		}
	}
}
