package widget

import (
	"testing"
	"time"
)

// fakeScheduler advances virtual time deterministically.
type fakeScheduler struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at        time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

func (f *fakeScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := &fakeTimer{at: f.now + d, fn: fn}
	f.timers = append(f.timers, t)
	return func() { t.cancelled = true }
}

func (f *fakeScheduler) Advance(d time.Duration) {
	f.now += d
	for _, t := range f.timers {
		if !t.fired && !t.cancelled && t.at <= f.now {
			t.fired = true
			t.fn()
		}
	}
}

func TestStack_HoverExpandsAfterDelay(t *testing.T) {
	sched := &fakeScheduler{}
	s := NewStack(sched, 6, 4, nil)

	s.HoverEnter()
	if s.State() != PendingExpand {
		t.Fatalf("expected pending, got %v", s.State())
	}

	sched.Advance(HoverDelay)
	if s.State() != ExpandedAuto {
		t.Fatalf("expected auto-expanded, got %v", s.State())
	}

	// Passive opens close on leave.
	s.HoverLeave()
	if s.State() != Collapsed {
		t.Fatalf("expected collapsed after leave, got %v", s.State())
	}
}

func TestStack_EarlyLeaveNeverExpands(t *testing.T) {
	sched := &fakeScheduler{}
	s := NewStack(sched, 6, 4, nil)

	s.HoverEnter()
	sched.Advance(1000 * time.Millisecond)
	s.HoverLeave()
	if s.State() != Collapsed {
		t.Fatalf("expected collapsed, got %v", s.State())
	}

	// The cancelled timer must not fire late against the collapsed stack.
	sched.Advance(HoverDelay)
	if s.State() != Collapsed {
		t.Fatalf("stale timer fired: %v", s.State())
	}
}

func TestStack_ManualExpandSurvivesHoverLeave(t *testing.T) {
	sched := &fakeScheduler{}
	s := NewStack(sched, 6, 4, nil)

	s.HoverEnter()
	s.Expand()
	if s.State() != ExpandedManual {
		t.Fatalf("expected manual expand, got %v", s.State())
	}

	s.HoverLeave()
	if s.State() != ExpandedManual {
		t.Fatal("manual expand must ignore hover-leave")
	}

	sched.Advance(HoverDelay)
	if s.State() != ExpandedManual {
		t.Fatal("pending hover timer must be cancelled by manual expand")
	}
}

func TestStack_CollapseResetsCarousel(t *testing.T) {
	s := NewStack(&fakeScheduler{}, 5, 4, nil)
	s.Expand()
	s.Next()
	s.Next()
	if s.Index() != 2 {
		t.Fatalf("expected index 2, got %d", s.Index())
	}

	s.Collapse()
	if s.State() != Collapsed || s.Index() != 0 {
		t.Fatalf("collapse must rewind, got state=%v index=%d", s.State(), s.Index())
	}
}

func TestStack_CarouselWrapsAndClamps(t *testing.T) {
	s := NewStack(&fakeScheduler{}, 3, 2, nil)

	s.Prev()
	if s.Index() != 2 {
		t.Fatalf("prev from 0 should wrap to 2, got %d", s.Index())
	}
	s.Next()
	if s.Index() != 0 {
		t.Fatalf("next from last should wrap to 0, got %d", s.Index())
	}

	s.Next()
	s.Next() // index 2
	s.SetItemCount(2)
	if s.Index() != 1 {
		t.Fatalf("shrinking items must clamp the index, got %d", s.Index())
	}
}

func TestStack_Bypass(t *testing.T) {
	s := NewStack(&fakeScheduler{}, 3, 4, nil)
	if !s.Bypassed() {
		t.Fatal("3 items under a threshold of 4 must bypass the stack")
	}
	s.SetItemCount(5)
	if s.Bypassed() {
		t.Fatal("5 items must engage the stack")
	}
}

func TestSwipe_CommitNext(t *testing.T) {
	sched := &fakeScheduler{}
	var got Direction
	g := NewSwipeNav(sched, func(d Direction) { got = d })

	g.Start(200)
	g.Move(170)
	g.Move(140)
	dir := g.End(140, true, true)
	if dir != NavNext {
		t.Fatalf("expected next commit, got %v", dir)
	}
	if g.Offset() != -CommitOffset {
		t.Fatalf("expected committed offset %v, got %v", -CommitOffset, g.Offset())
	}
	if got != NavNone {
		t.Fatal("navigation must wait for the settle delay")
	}

	sched.Advance(SettleDelay)
	if got != NavNext {
		t.Fatalf("expected next navigation after settle, got %v", got)
	}
	if g.Offset() != 0 {
		t.Fatalf("offset must reset after settle, got %v", g.Offset())
	}
}

func TestSwipe_CommitPrev(t *testing.T) {
	sched := &fakeScheduler{}
	var got Direction
	g := NewSwipeNav(sched, func(d Direction) { got = d })

	g.Start(100)
	dir := g.End(180, true, true)
	if dir != NavPrev {
		t.Fatalf("expected prev commit, got %v", dir)
	}
	if g.Offset() != CommitOffset {
		t.Fatalf("expected mirrored offset, got %v", g.Offset())
	}
	sched.Advance(SettleDelay)
	if got != NavPrev {
		t.Fatalf("expected prev navigation, got %v", got)
	}
}

func TestSwipe_BelowThresholdSnapsBack(t *testing.T) {
	sched := &fakeScheduler{}
	called := false
	g := NewSwipeNav(sched, func(Direction) { called = true })

	g.Start(100)
	g.Move(80)
	dir := g.End(70, true, true) // distance 30
	if dir != NavNone || g.Offset() != 0 {
		t.Fatalf("expected snap back, got dir=%v offset=%v", dir, g.Offset())
	}
	sched.Advance(SettleDelay)
	if called {
		t.Fatal("snap back must not navigate")
	}
}

func TestSwipe_NoTargetSnapsBack(t *testing.T) {
	g := NewSwipeNav(&fakeScheduler{}, nil)
	g.Start(200)
	dir := g.End(100, true, false) // leftward swipe, no next target
	if dir != NavNone || g.Offset() != 0 {
		t.Fatalf("missing target must snap back, got dir=%v offset=%v", dir, g.Offset())
	}
}

func TestSwipe_CancelStopsSettledNavigation(t *testing.T) {
	sched := &fakeScheduler{}
	called := false
	g := NewSwipeNav(sched, func(Direction) { called = true })

	g.Start(200)
	g.End(100, true, true)
	g.Cancel()
	sched.Advance(SettleDelay)
	if called {
		t.Fatal("cancelled settle timer must not navigate")
	}
}
