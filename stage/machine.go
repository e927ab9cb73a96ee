package stage

import (
	"time"

	"github.com/md-rashed-zaman/pipetrack/model"
)

// Source looks up the current state of an appointment. Backed by whatever
// snapshot the external data layer last delivered.
type Source interface {
	Appointment(id string) (model.Appointment, bool)
}

// Rates are the commission amounts applied when a deal closes. They come from
// externally managed settings, not from the records themselves.
type Rates struct {
	StandardCents   int64
	SelfCents       int64
	ActivationCents int64
}

// DefaultRates mirrors the seeded global settings.
var DefaultRates = Rates{
	StandardCents:   200,
	SelfCents:       300,
	ActivationCents: 1000,
}

// Machine proposes stage transitions. It never persists anything: the caller
// hands the proposed record to the data layer and must not assume the write
// succeeded before the next read.
//
// The machine is permissive: any stage can be requested from any other. The
// UI only offers the documented transitions, but edits act as a data-repair
// escape hatch and must not be rejected here.
type Machine struct {
	source Source
	rates  Rates
}

func NewMachine(source Source, rates Rates) *Machine {
	if rates.StandardCents <= 0 {
		rates.StandardCents = DefaultRates.StandardCents
	}
	if rates.SelfCents <= 0 {
		rates.SelfCents = DefaultRates.SelfCents
	}
	if rates.ActivationCents <= 0 {
		rates.ActivationCents = DefaultRates.ActivationCents
	}
	return &Machine{source: source, rates: rates}
}

// MoveRequest carries the context of a stage-change request.
type MoveRequest struct {
	// SelfOnboard attributes the close to the owning agent instead of a
	// separate closer.
	SelfOnboard bool
	// AgentName is the owning agent's display name, used for attribution.
	AgentName string
	// CloserName is the AE confirming a transfer close, when there is one.
	CloserName string
}

// Move returns the proposed next record for a stage-change request, or
// NotFoundError when the id is unknown to the data layer.
func (m *Machine) Move(id string, target model.Stage, req MoveRequest, now time.Time) (model.Appointment, error) {
	appt, ok := m.source.Appointment(id)
	if !ok {
		return model.Appointment{}, &model.NotFoundError{ID: id}
	}

	next := appt
	switch target {
	case model.StageOnboarded:
		m.onboard(&next, req, now)
	case model.StageActivated:
		m.activate(&next, req, now)
	case model.StageDeclined:
		nurture := now.AddDate(0, 0, 30)
		next.NurtureDate = &nurture
		clearCloseState(&next)
	default:
		clearCloseState(&next)
	}
	next.Stage = target
	return next, nil
}

func (m *Machine) onboard(next *model.Appointment, req MoveRequest, now time.Time) {
	if req.SelfOnboard {
		next.EarnedCents = m.rates.SelfCents
		name := req.AgentName
		if name == "" {
			name = "Self"
		}
		next.AEName = name
	} else {
		if req.CloserName != "" {
			next.AEName = req.CloserName
		}
		if m.isSelfClosed(next, req.AgentName) {
			next.EarnedCents = m.rates.SelfCents
		} else {
			next.EarnedCents = m.rates.StandardCents
		}
	}
	if next.OnboardedAt == nil {
		ts := now
		next.OnboardedAt = &ts
	}
}

func (m *Machine) activate(next *model.Appointment, req MoveRequest, now time.Time) {
	next.EarnedCents = m.rates.ActivationCents
	if next.ActivatedAt != nil {
		return
	}
	ts := now
	next.ActivatedAt = &ts
	// Snapshot original attribution exactly once. Activations commonly move
	// a record to a service team, which would otherwise rewrite history.
	if next.OriginalUserID == "" {
		next.OriginalUserID = next.UserID
	}
	if next.OriginalOnboardType == "" {
		if m.isSelfClosed(next, req.AgentName) {
			next.OriginalOnboardType = model.OnboardSelf
		} else {
			next.OriginalOnboardType = model.OnboardTransfer
		}
	}
	if next.OriginalAEName == "" {
		next.OriginalAEName = next.AEName
	}
}

func (m *Machine) isSelfClosed(appt *model.Appointment, agentName string) bool {
	return appt.AEName != "" && agentName != "" && appt.AEName == agentName
}

// Earnings and closer attribution only exist on closed records.
func clearCloseState(next *model.Appointment) {
	next.EarnedCents = 0
	next.AEName = ""
	next.OnboardedAt = nil
}

// EditRequest is a caller-initiated edit of record fields. Rescheduling is an
// edit, not a stage transition: it updates the slot and reverts the record to
// Pending. String fields use presence wrappers so an edit can write the empty
// string (clearing notes, say) without every untouched field being wiped.
type EditRequest struct {
	Name        Field
	Phone       Field
	Email       Field
	Notes       Field
	ScheduledAt time.Time
	Stage       Stage
	AEName      Field
	AgentName   string
	Reschedule  bool
}

// Stage wraps a target stage so an edit can distinguish "leave unchanged"
// from an explicit override.
type Stage struct {
	Value model.Stage
	Set   bool
}

// To returns an explicit stage override for an edit.
func To(s model.Stage) Stage {
	return Stage{Value: s, Set: true}
}

// Field wraps a string edit the same way: Set false leaves the record's
// value alone, Set true overwrites it, empty string included.
type Field struct {
	Value string
	Set   bool
}

// Write returns an explicit field value for an edit.
func Write(s string) Field {
	return Field{Value: s, Set: true}
}

// Edit returns the proposed record after applying an edit. Stage overrides
// here are intentionally unconstrained. A record that is Onboarded after the
// edit has its close amount recomputed from the current attribution on every
// save, and a first-time onboard picks up the close timestamp.
func (m *Machine) Edit(id string, req EditRequest, now time.Time) (model.Appointment, error) {
	appt, ok := m.source.Appointment(id)
	if !ok {
		return model.Appointment{}, &model.NotFoundError{ID: id}
	}

	next := appt
	if req.Name.Set {
		next.Name = req.Name.Value
	}
	if req.Phone.Set {
		next.Phone = req.Phone.Value
	}
	if req.Email.Set {
		next.Email = req.Email.Value
	}
	if req.Notes.Set {
		next.Notes = req.Notes.Value
	}
	if req.AEName.Set {
		next.AEName = req.AEName.Value
	}
	if !req.ScheduledAt.IsZero() {
		next.ScheduledAt = req.ScheduledAt
	}

	if req.Reschedule {
		next.Stage = model.StagePending
		return next, nil
	}

	if req.Stage.Set {
		next.Stage = req.Stage.Value
	}

	if next.Stage == model.StageOnboarded {
		if m.isSelfClosed(&next, req.AgentName) {
			next.EarnedCents = m.rates.SelfCents
		} else {
			next.EarnedCents = m.rates.StandardCents
		}
		if next.OnboardedAt == nil {
			ts := now
			next.OnboardedAt = &ts
		}
	}
	return next, nil
}
