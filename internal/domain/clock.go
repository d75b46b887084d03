package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is the package time source, swappable so tests can freeze
// ProcessedAt stamps. Production code never touches it.
var clock = clockwork.NewRealClock()

// SetClock replaces the time source. Pass nil to restore the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now reads the package time source.
func Now() time.Time { return clock.Now() }
