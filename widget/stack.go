package widget

import (
	"sync"
	"time"
)

// HoverDelay is how long a pointer must rest on the stack control before it
// auto-expands.
const HoverDelay = 1880 * time.Millisecond

// StackState is the expand/collapse condition of a card stack.
type StackState int

const (
	// Collapsed shows only the carousel's active card.
	Collapsed StackState = iota
	// PendingExpand means the hover timer is armed but has not fired.
	PendingExpand
	// ExpandedAuto was opened passively by hover; leaving closes it.
	ExpandedAuto
	// ExpandedManual was opened by an explicit action and ignores
	// hover-leave.
	ExpandedManual
)

// Stack drives the hover-expand behavior of the card stack widget together
// with its wrap-around carousel index. Only meaningful when the item count
// exceeds the threshold; below it the stack is bypassed and items render
// flat.
type Stack struct {
	mu        sync.Mutex
	sched     Scheduler
	cancel    func()
	state     StackState
	index     int
	count     int
	threshold int
	onChange  func(StackState)
}

// NewStack builds a stack controller for count items. onChange, if non-nil,
// fires on every state change (including timer-driven ones) and must not call
// back into the controller.
func NewStack(sched Scheduler, count, threshold int, onChange func(StackState)) *Stack {
	if sched == nil {
		sched = NewScheduler()
	}
	return &Stack{sched: sched, count: count, threshold: threshold, onChange: onChange}
}

// Bypassed reports whether the stack behavior is disabled for the current
// item count.
func (s *Stack) Bypassed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count <= s.threshold
}

// State returns the current expand state.
func (s *Stack) State() StackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// HoverEnter arms the auto-expand timer while collapsed.
func (s *Stack) HoverEnter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Collapsed {
		return
	}
	s.setState(PendingExpand)
	s.cancel = s.sched.AfterFunc(HoverDelay, s.timerFired)
}

func (s *Stack) timerFired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != PendingExpand {
		// A leave or manual action won the race; stay put.
		return
	}
	s.cancel = nil
	s.setState(ExpandedAuto)
}

// HoverLeave cancels a pending expand and closes a hover-opened stack. A
// manually expanded stack stays open.
func (s *Stack) HoverLeave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case PendingExpand:
		s.stopTimer()
		s.setState(Collapsed)
	case ExpandedAuto:
		s.setState(Collapsed)
	}
}

// Expand opens the stack by explicit user action.
func (s *Stack) Expand() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == ExpandedManual {
		return
	}
	s.stopTimer()
	s.setState(ExpandedManual)
}

// Collapse closes the stack and rewinds the carousel.
func (s *Stack) Collapse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimer()
	s.index = 0
	s.setState(Collapsed)
}

// Close releases the controller on widget unmount. Any armed timer is
// cancelled so it cannot fire against stale state.
func (s *Stack) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimer()
}

// Next advances the carousel, wrapping at the end.
func (s *Stack) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count > 0 {
		s.index = (s.index + 1) % s.count
	}
	return s.index
}

// Prev steps the carousel back, wrapping at the front.
func (s *Stack) Prev() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count > 0 {
		s.index = (s.index - 1 + s.count) % s.count
	}
	return s.index
}

// Index returns the carousel position.
func (s *Stack) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// SetItemCount tracks the backing item list. If the list shrank past the
// current position the index is clamped to the last valid card.
func (s *Stack) SetItemCount(count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count = count
	if s.index >= count {
		s.index = count - 1
		if s.index < 0 {
			s.index = 0
		}
	}
}

func (s *Stack) stopTimer() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Stack) setState(st StackState) {
	if s.state == st {
		return
	}
	s.state = st
	if s.onChange != nil {
		s.onChange(st)
	}
}
