package widget

import (
	"sync"
	"time"
)

const (
	// SwipeThreshold is the horizontal distance that commits a navigation.
	SwipeThreshold = 50.0
	// CommitOffset is the translate target a committed swipe animates to.
	CommitOffset = 500.0
	// SettleDelay is how long the commit animation runs before the
	// navigation callback fires.
	SettleDelay = 200 * time.Millisecond
)

// Direction of a committed swipe navigation.
type Direction int

const (
	NavNone Direction = iota
	NavPrev
	NavNext
)

// SwipeNav turns a horizontal drag into previous/next navigation. The caller
// feeds pointer positions; Offset drives the live translate for visual
// feedback. A gesture past the threshold animates out and invokes the
// navigate callback after the settle delay; anything else, including a plain
// tap, snaps back with no navigation.
type SwipeNav struct {
	mu       sync.Mutex
	sched    Scheduler
	cancel   func()
	startX   float64
	offset   float64
	dragging bool
	navigate func(Direction)
}

// NewSwipeNav builds a gesture controller. navigate must not call back into
// the controller.
func NewSwipeNav(sched Scheduler, navigate func(Direction)) *SwipeNav {
	if sched == nil {
		sched = NewScheduler()
	}
	return &SwipeNav{sched: sched, navigate: navigate}
}

// Start begins a gesture at pointer position x.
func (g *SwipeNav) Start(x float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.startX = x
	g.offset = 0
	g.dragging = true
}

// Move updates the live translate offset and returns it.
func (g *SwipeNav) Move(x float64) float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.dragging {
		return g.offset
	}
	g.offset = x - g.startX
	return g.offset
}

// End finishes the gesture. hasPrev/hasNext say whether a target exists on
// each side; a swipe toward a missing target snaps back.
func (g *SwipeNav) End(x float64, hasPrev, hasNext bool) Direction {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.dragging {
		return NavNone
	}
	g.dragging = false
	distance := g.startX - x

	switch {
	case distance > SwipeThreshold && hasNext:
		g.commit(-CommitOffset, NavNext)
		return NavNext
	case distance < -SwipeThreshold && hasPrev:
		g.commit(CommitOffset, NavPrev)
		return NavPrev
	default:
		g.offset = 0
		return NavNone
	}
}

func (g *SwipeNav) commit(offset float64, dir Direction) {
	g.offset = offset
	g.cancel = g.sched.AfterFunc(SettleDelay, func() {
		g.mu.Lock()
		g.cancel = nil
		g.offset = 0
		nav := g.navigate
		g.mu.Unlock()
		if nav != nil {
			nav(dir)
		}
	})
}

// Offset returns the current translate offset.
func (g *SwipeNav) Offset() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.offset
}

// Cancel aborts the active gesture and any scheduled navigation, for unmount
// or a conflicting user action.
func (g *SwipeNav) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.dragging = false
	g.offset = 0
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}
