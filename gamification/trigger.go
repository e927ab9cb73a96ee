// Package gamification watches a cycle's running onboarded count and raises
// one-shot milestone events against persisted seen flags.
package gamification

import (
	"context"
	"fmt"

	"github.com/md-rashed-zaman/pipetrack/libs/kvstore"
)

// Milestone levels, in check order. Level 13 is evaluated first and
// short-circuits, so a viewer who jumps past both thresholds in a single
// observation sees 13 now and 21 on the next observation.
const (
	Level13 = 13
	Level21 = 21
)

var levels = []int{Level13, Level21}

// Event is a live milestone celebration. Exactly one is live at a time;
// dismissing it persists the seen flag for its cycle so it never re-fires.
type Event struct {
	Level   int
	CycleID string
}

// Trigger evaluates milestone thresholds for standard viewers.
type Trigger struct {
	flags kvstore.Store
}

func NewTrigger(flags kvstore.Store) *Trigger {
	return &Trigger{flags: flags}
}

func seenKey(level int, cycleID string) string {
	return kvstore.Key(fmt.Sprintf("game_seen_level%d", level), cycleID)
}

// Observe checks the current onboarded count for the active cycle and
// returns the milestone event to show, or nil. Privileged viewers never
// receive events.
func (t *Trigger) Observe(ctx context.Context, cycleID string, onboardedCount int, privileged bool) (*Event, error) {
	if privileged || cycleID == "" {
		return nil, nil
	}
	for _, level := range levels {
		if onboardedCount < level {
			continue
		}
		_, seen, err := t.flags.Get(ctx, seenKey(level, cycleID))
		if err != nil {
			return nil, err
		}
		if !seen {
			return &Event{Level: level, CycleID: cycleID}, nil
		}
	}
	return nil, nil
}

// Dismiss marks an event's threshold as seen for its cycle.
func (t *Trigger) Dismiss(ctx context.Context, ev *Event) error {
	if ev == nil {
		return nil
	}
	return t.flags.Set(ctx, seenKey(ev.Level, ev.CycleID), "true")
}
