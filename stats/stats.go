// Package stats derives the earnings and performance rollups the dashboard
// and admin views display. All inputs arrive from the external data layer;
// nothing here mutates records.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/md-rashed-zaman/pipetrack/cycle"
	"github.com/md-rashed-zaman/pipetrack/model"
)

// Earnings is the viewer-scoped cycle rollup: the still-open window, the
// closed history, and the all-time total.
type Earnings struct {
	Current  *model.EarningWindow
	History  []model.EarningWindow
	Lifetime decimal.Decimal
}

// EarningWindows folds appointments and incentives into per-cycle earning
// windows for one viewer. Admin viewers see the whole team. Closed cycles the
// viewer has dismissed are dropped from history but still count toward
// lifetime.
func EarningWindows(cycles []model.PayCycle, appts []model.Appointment, incentives []model.Incentive, viewer model.User, now time.Time) Earnings {
	admin := viewer.Role == model.RoleAdmin

	var onboarded []model.Appointment
	for _, a := range appts {
		if !admin && a.UserID != viewer.ID {
			continue
		}
		if a.Stage == model.StageOnboarded {
			onboarded = append(onboarded, a)
		}
	}

	var relevant []model.Incentive
	for _, inc := range incentives {
		if admin || inc.UserID == viewer.ID || inc.UserID == "team" {
			relevant = append(relevant, inc)
		}
	}

	lifetime := decimal.Zero
	for _, a := range onboarded {
		lifetime = lifetime.Add(model.Cents(a.EarnedCents))
	}
	for _, inc := range relevant {
		lifetime = lifetime.Add(model.Cents(inc.AmountCents))
	}

	windowUser := viewer.ID
	if admin {
		windowUser = "team"
	}

	dismissed := make(map[string]bool, len(viewer.DismissedCycleIDs))
	for _, id := range viewer.DismissedCycleIDs {
		dismissed[id] = true
	}

	var windows []model.EarningWindow
	for _, c := range dedupeCycles(cycles) {
		start, end := cycle.Bounds(c)
		if start.After(now) {
			continue
		}

		var total int64
		count := 0
		for _, a := range onboarded {
			at := closedAt(a)
			if !at.Before(start) && !at.After(end) {
				total += a.EarnedCents
				count++
			}
		}

		var cycleIncentives []model.Incentive
		for _, inc := range relevant {
			if inc.AppliedCycleID == c.ID {
				cycleIncentives = append(cycleIncentives, inc)
				total += inc.AmountCents
			}
		}

		windows = append(windows, model.EarningWindow{
			ID:             c.ID,
			UserID:         windowUser,
			StartDate:      c.StartDate,
			EndDate:        c.EndDate,
			TotalCents:     total,
			OnboardedCount: count,
			IsClosed:       now.After(end),
			Incentives:     cycleIncentives,
		})
	}

	out := Earnings{Lifetime: lifetime}
	for i := range windows {
		w := windows[i]
		if !w.IsClosed && out.Current == nil {
			out.Current = &windows[i]
			continue
		}
		if w.IsClosed && !dismissed[w.ID] {
			out.History = append(out.History, w)
		}
	}
	return out
}

// closedAt is when a deal lands for cycle attribution: the close time, or the
// scheduled slot for records closed before that field existed.
func closedAt(a model.Appointment) time.Time {
	if a.OnboardedAt != nil {
		return *a.OnboardedAt
	}
	return a.ScheduledAt
}

// dedupeCycles collapses cycles that share a start day, keeping the one that
// runs longest, then orders by end date descending. Overlapping seed data is
// a known condition in cycle administration.
func dedupeCycles(cycles []model.PayCycle) []model.PayCycle {
	byStart := make(map[string]model.PayCycle)
	for _, c := range cycles {
		key := c.StartDate.Format("2006-01-02")
		if kept, ok := byStart[key]; !ok || c.EndDate.After(kept.EndDate) {
			byStart[key] = c
		}
	}
	out := make([]model.PayCycle, 0, len(byStart))
	for _, c := range byStart {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].EndDate.After(out[j].EndDate)
	})
	return out
}

// TeamCycleTotal sums every agent's production and incentives inside the
// active cycle.
func TeamCycleTotal(active model.PayCycle, appts []model.Appointment, incentives []model.Incentive) decimal.Decimal {
	start, end := cycle.Bounds(active)
	total := decimal.Zero
	for _, a := range appts {
		if a.Stage != model.StageOnboarded {
			continue
		}
		at := closedAt(a)
		if !at.Before(start) && !at.After(end) {
			total = total.Add(model.Cents(a.EarnedCents))
		}
	}
	for _, inc := range incentives {
		if inc.AppliedCycleID == active.ID {
			total = total.Add(model.Cents(inc.AmountCents))
		}
	}
	return total
}

// AgentPerformance is one agent's conversion profile.
type AgentPerformance struct {
	Onboards          int
	Activations       int
	TotalReferrals    int
	ReferralRatio     string
	AvgDaysToActivate string
}

// Performance computes per-agent conversion stats across the full record set.
func Performance(users []model.User, appts []model.Appointment) map[string]AgentPerformance {
	out := make(map[string]AgentPerformance, len(users))
	for _, u := range users {
		var perf AgentPerformance
		var activationDays []float64
		for _, a := range appts {
			if a.UserID != u.ID {
				continue
			}
			if a.OnboardedAt != nil {
				perf.Onboards++
			}
			if a.Stage == model.StageActivated {
				perf.Activations++
			}
			perf.TotalReferrals += a.ReferralCount
			if a.OnboardedAt != nil && a.ActivatedAt != nil {
				activationDays = append(activationDays, a.ActivatedAt.Sub(*a.OnboardedAt).Hours()/24)
			}
		}

		perf.ReferralRatio = "0"
		if perf.Onboards > 0 {
			perf.ReferralRatio = fmt.Sprintf("%.1f", float64(perf.TotalReferrals)/float64(perf.Onboards))
		}
		perf.AvgDaysToActivate = "N/A"
		if len(activationDays) > 0 {
			sum := 0.0
			for _, d := range activationDays {
				sum += d
			}
			perf.AvgDaysToActivate = fmt.Sprintf("%.1f", sum/float64(len(activationDays)))
		}
		out[u.ID] = perf
	}
	return out
}

// Dashboard is the top-of-page count summary.
type Dashboard struct {
	Total          int
	Onboarded      int
	Pending        int
	Failed         int
	Rescheduled    int
	ConversionRate string
	AEPerformance  map[string]int
}

// Summarize tallies the stage distribution and per-AE close counts.
func Summarize(appts []model.Appointment) Dashboard {
	d := Dashboard{AEPerformance: make(map[string]int)}
	for _, a := range appts {
		d.Total++
		switch a.Stage {
		case model.StageOnboarded:
			d.Onboarded++
			if a.AEName != "" {
				d.AEPerformance[a.AEName]++
			}
		case model.StagePending:
			d.Pending++
		case model.StageNoShow, model.StageDeclined:
			d.Failed++
		case model.StageRescheduled:
			d.Rescheduled++
		}
	}
	d.ConversionRate = "0%"
	if d.Total > 0 {
		d.ConversionRate = fmt.Sprintf("%.0f%%", float64(d.Onboarded)/float64(d.Total)*100)
	}
	return d
}
