package tracker

import "time"

// ActiveClock ticks only while the page is visible. Pausing drops the ticker,
// so a resume starts a fresh period and missed ticks are never replayed.
type ActiveClock struct {
	interval time.Duration
	ticker   *time.Ticker
}

func NewActiveClock(interval time.Duration) *ActiveClock {
	return &ActiveClock{interval: interval}
}

func (c *ActiveClock) Resume() {
	if c.ticker != nil {
		return
	}
	c.ticker = time.NewTicker(c.interval)
}

func (c *ActiveClock) Pause() {
	if c.ticker == nil {
		return
	}
	c.ticker.Stop()
	c.ticker = nil
}

func (c *ActiveClock) Running() bool {
	return c.ticker != nil
}

// C is nil while paused; receiving from it in a select then never fires.
func (c *ActiveClock) C() <-chan time.Time {
	if c.ticker == nil {
		return nil
	}
	return c.ticker.C
}
