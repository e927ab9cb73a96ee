package urgency

import (
	"time"

	"github.com/md-rashed-zaman/pipetrack/model"
)

// Band is the display class of a readiness score. It decides color only,
// never behavior.
type Band string

const (
	BandReady       Band = "ready"
	BandApproaching Band = "approaching"
	BandScheduled   Band = "scheduled"
	BandDueSoon     Band = "due-soon"
	BandUpcoming    Band = "upcoming"
)

// Horizon is how far out an appointment still registers above the floor.
const Horizon = 168 * time.Hour

const floorPercent = 5.0

// Readiness is a time-decay score for a pending appointment: 5 at or beyond
// the horizon, rising monotonically to 100 at the scheduled time, saturated
// once the slot has passed. Pulse marks the emphasis window around the slot.
type Readiness struct {
	Percent float64
	Band    Band
	Pulse   bool
}

// Evaluate scores scheduledAt against now. It returns nil for stages where
// the scheduled time carries no urgency meaning.
func Evaluate(stage model.Stage, scheduledAt, now time.Time) *Readiness {
	if stage != model.StagePending && stage != model.StageRescheduled {
		return nil
	}

	diffHours := scheduledAt.Sub(now).Hours()
	horizonHours := Horizon.Hours()

	if diffHours < 0 {
		// Slot has passed: fully ready, pulsing for the first day overdue.
		return &Readiness{Percent: 100, Band: BandReady, Pulse: diffHours > -24}
	}
	if diffHours > horizonHours {
		return &Readiness{Percent: floorPercent, Band: BandUpcoming}
	}

	percent := 100 - diffHours/horizonHours*100
	if percent < floorPercent {
		percent = floorPercent
	}
	if percent > 100 {
		percent = 100
	}

	return &Readiness{
		Percent: percent,
		Band:    bandFor(percent),
		Pulse:   diffHours > 0 && diffHours < 1,
	}
}

func bandFor(percent float64) Band {
	switch {
	case percent > 90:
		return BandReady
	case percent > 60:
		return BandApproaching
	case percent > 30:
		return BandScheduled
	default:
		return BandDueSoon
	}
}
