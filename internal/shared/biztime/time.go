// Package biztime centralizes wall-clock access. All storage and transport
// use UTC; nothing in the service reads the Local timezone.
package biztime

import "time"

// Clock supplies the current instant. Components that compare against
// expiry timestamps take a Clock so tests can pin time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return NowUTC() }

// System is the real clock.
var System Clock = systemClock{}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the instant it holds. Advance moves it forward.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }
