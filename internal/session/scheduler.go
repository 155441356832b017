package session

import (
	"sync"
	"time"
)

// Scheduler owns the lifetime of the engine's periodic work. Every returns a
// stop function; calling it guarantees no further invocations of fn.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// TickerScheduler runs periodic tasks on real wall-clock ticks.
type TickerScheduler struct{}

func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

func (s *TickerScheduler) Every(interval time.Duration, fn func()) func() {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
		})
	}
}
