package tracking

import (
	"sync"
	"time"
)

// DefaultLocationPollInterval is how often an active tracker re-requests
// the driver's position.
const DefaultLocationPollInterval = 10 * time.Second

// Tracker owns one trip's active tracking session: it joins the trip's
// room, re-requests the driver location on an interval, and stops both
// when disposed. Every view that starts a tracker must dispose it when the
// view goes away; a leaked tracker keeps polling and mutating state with
// no consumer.
type Tracker struct {
	channel  Channel
	tripID   string
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
}

// StartTracker joins the trip and begins polling. The first location
// request fires immediately so the consumer is never empty on mount.
func StartTracker(channel Channel, tripID string, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultLocationPollInterval
	}

	t := &Tracker{
		channel:  channel,
		tripID:   tripID,
		interval: interval,
		stop:     make(chan struct{}),
	}

	_ = channel.JoinTrip(tripID)
	_ = channel.RequestDriverLocation(tripID)
	go t.loop()

	return t
}

func (t *Tracker) loop() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			_ = t.channel.RequestDriverLocation(t.tripID)
		}
	}
}

// Dispose stops polling and leaves the trip. Safe to call more than once.
func (t *Tracker) Dispose() {
	t.once.Do(func() {
		close(t.stop)
		_ = t.channel.LeaveTrip(t.tripID)
	})
}
