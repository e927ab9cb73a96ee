// Package widget holds the interaction state machines behind the card stack
// and swipe carousel widgets. Each controller instance belongs to one
// rendered widget and is discarded with it.
package widget

import "time"

// Scheduler arms single-shot timers. Controllers hold on to the returned
// cancel so a pending callback can never fire against a widget that has
// unmounted or changed its backing items.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// NewScheduler returns a Scheduler backed by the runtime clock.
func NewScheduler() Scheduler {
	return realScheduler{}
}
