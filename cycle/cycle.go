package cycle

import (
	"sort"
	"strings"
	"time"

	"github.com/md-rashed-zaman/pipetrack/model"
)

// LifetimeID is the synthetic menu option meaning "no date filter".
const LifetimeID = "lifetime"

const menuSize = 5

// Option is one entry in the cycle selection menu.
type Option struct {
	ID        string
	Label     string
	StartDate time.Time
	EndDate   time.Time
}

// Bounds returns the inclusive instant range a cycle covers: start of its
// first day through 23:59:59.999 of its last.
func Bounds(c model.PayCycle) (time.Time, time.Time) {
	return startOfDay(c.StartDate), endOfDay(c.EndDate)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999000000, t.Location())
}

// Ended returns the cycles whose window has fully elapsed, newest first.
func Ended(cycles []model.PayCycle, now time.Time) []model.PayCycle {
	var ended []model.PayCycle
	for _, c := range cycles {
		if endOfDay(c.EndDate).Before(now) {
			ended = append(ended, c)
		}
	}
	sort.SliceStable(ended, func(i, j int) bool {
		return ended[i].EndDate.After(ended[j].EndDate)
	})
	return ended
}

// Active returns the cycle whose window contains now, if any.
func Active(cycles []model.PayCycle, now time.Time) (model.PayCycle, bool) {
	for _, c := range cycles {
		start, end := Bounds(c)
		if !now.Before(start) && !now.After(end) {
			return c, true
		}
	}
	return model.PayCycle{}, false
}

// Menu builds the selectable cycle list: the five most recently ended cycles
// behind a leading Lifetime option.
func Menu(cycles []model.PayCycle, now time.Time) []Option {
	options := []Option{{ID: LifetimeID, Label: "Lifetime"}}
	ended := Ended(cycles, now)
	if len(ended) > menuSize {
		ended = ended[:menuSize]
	}
	for _, c := range ended {
		options = append(options, Option{
			ID:        c.ID,
			Label:     c.StartDate.Format("Jan 2") + " - " + c.EndDate.Format("Jan 2"),
			StartDate: c.StartDate,
			EndDate:   c.EndDate,
		})
	}
	return options
}

// FilterByCycle keeps the records whose scheduled time falls inside the
// selected cycle's window. The Lifetime sentinel and unknown ids pass
// everything through.
func FilterByCycle(appts []model.Appointment, cycles []model.PayCycle, cycleID string) []model.Appointment {
	if cycleID == "" || cycleID == LifetimeID {
		return appts
	}
	var selected *model.PayCycle
	for i := range cycles {
		if cycles[i].ID == cycleID {
			selected = &cycles[i]
			break
		}
	}
	if selected == nil {
		return appts
	}

	start, end := Bounds(*selected)
	var out []model.Appointment
	for _, a := range appts {
		if !a.ScheduledAt.Before(start) && !a.ScheduledAt.After(end) {
			out = append(out, a)
		}
	}
	return out
}

// Search applies the free-text filter: name, phone substring, email, and
// notes, case-insensitively. Privileged viewers additionally match on the
// owning agent's name. An empty query passes everything.
func Search(appts []model.Appointment, query string, agents map[string]model.User, privileged bool) []model.Appointment {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return appts
	}

	var out []model.Appointment
	for _, a := range appts {
		if strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(a.Phone, q) ||
			strings.Contains(strings.ToLower(a.Email), q) ||
			strings.Contains(strings.ToLower(a.Notes), q) {
			out = append(out, a)
			continue
		}
		if privileged {
			if agent, ok := agents[a.UserID]; ok && strings.Contains(strings.ToLower(agent.Name), q) {
				out = append(out, a)
			}
		}
	}
	return out
}

// Order is the shared sort direction toggle.
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// SortBySchedule orders records by scheduled time. Equal timestamps keep
// their original relative order.
func SortBySchedule(appts []model.Appointment, order Order) []model.Appointment {
	out := make([]model.Appointment, len(appts))
	copy(out, appts)
	sort.SliceStable(out, func(i, j int) bool {
		if order == Descending {
			return out[i].ScheduledAt.After(out[j].ScheduledAt)
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out
}
