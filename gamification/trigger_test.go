package gamification

import (
	"context"
	"testing"

	"github.com/md-rashed-zaman/pipetrack/libs/kvstore"
)

func TestObserve_LevelSequence(t *testing.T) {
	ctx := context.Background()
	trg := NewTrigger(kvstore.NewMemory())

	// Jumping straight past both thresholds surfaces 13 first.
	ev, err := trg.Observe(ctx, "c1", 25, false)
	if err != nil {
		t.Fatalf("observe: %v", err)
	}
	if ev == nil || ev.Level != Level13 {
		t.Fatalf("expected level 13 first, got %+v", ev)
	}

	if err := trg.Dismiss(ctx, ev); err != nil {
		t.Fatalf("dismiss: %v", err)
	}

	ev, _ = trg.Observe(ctx, "c1", 25, false)
	if ev == nil || ev.Level != Level21 {
		t.Fatalf("expected level 21 after dismissing 13, got %+v", ev)
	}

	_ = trg.Dismiss(ctx, ev)
	ev, _ = trg.Observe(ctx, "c1", 25, false)
	if ev != nil {
		t.Fatalf("expected no further events, got %+v", ev)
	}
}

func TestObserve_BelowThreshold(t *testing.T) {
	trg := NewTrigger(kvstore.NewMemory())
	ev, _ := trg.Observe(context.Background(), "c1", 12, false)
	if ev != nil {
		t.Fatalf("expected nothing below 13, got %+v", ev)
	}
}

func TestObserve_PrivilegedViewersExempt(t *testing.T) {
	trg := NewTrigger(kvstore.NewMemory())
	ev, _ := trg.Observe(context.Background(), "c1", 25, true)
	if ev != nil {
		t.Fatalf("admins must never see milestones, got %+v", ev)
	}
}

func TestObserve_FlagsAreScopedPerCycle(t *testing.T) {
	ctx := context.Background()
	trg := NewTrigger(kvstore.NewMemory())

	ev, _ := trg.Observe(ctx, "c1", 14, false)
	_ = trg.Dismiss(ctx, ev)

	// A fresh cycle starts over.
	ev, _ = trg.Observe(ctx, "c2", 14, false)
	if ev == nil || ev.Level != Level13 {
		t.Fatalf("expected level 13 for the new cycle, got %+v", ev)
	}
}

func TestDismissPersistsNamespacedKey(t *testing.T) {
	flags := kvstore.NewMemory()
	trig := NewTrigger(flags)
	ctx := context.Background()

	if err := trig.Dismiss(ctx, &Event{Level: Level13, CycleID: "cycle-1"}); err != nil {
		t.Fatal(err)
	}
	v, ok, err := flags.Get(ctx, "pipetrack_game_seen_level13_cycle-1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || v != "true" {
		t.Fatalf("flag = %q, %v; want the namespaced key set to true", v, ok)
	}
}
