// Package dispatch turns user actions into mutation intents. The caller's
// data layer owns the actual writes; a dispatcher only proposes the next
// record, publishes the intent fire-and-forget, and records an audit entry.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/md-rashed-zaman/pipetrack/activity"
	"github.com/md-rashed-zaman/pipetrack/incentive"
	"github.com/md-rashed-zaman/pipetrack/model"
	"github.com/md-rashed-zaman/pipetrack/stage"
)

// Intent types carried on the wire.
const (
	IntentStageChange    = "stage_change"
	IntentEdit           = "edit"
	IntentDelete         = "delete"
	IntentNotesSave      = "notes_save"
	IntentRestore        = "restore"
	IntentIncentiveGrant = "incentive_grant"
)

// Intent is one requested mutation. Record is the full proposed next state
// so consumers never have to re-derive transition side effects; it is nil
// for deletes. Incentive grants carry the granted records and the rules
// whose usage count must advance.
type Intent struct {
	ID            string             `json:"id"`
	Type          string             `json:"type"`
	AppointmentID string             `json:"appointment_id"`
	Record        *model.Appointment `json:"record,omitempty"`
	Incentives    []model.Incentive  `json:"incentives,omitempty"`
	UsedRuleIDs   []string           `json:"used_rule_ids,omitempty"`
	RequestedAt   time.Time          `json:"requested_at"`
}

// Sink delivers intents to the data layer.
type Sink interface {
	Publish(ctx context.Context, in Intent) error
}

// Dispatcher wires stage proposals, intent publication, audit and one level
// of undo together.
type Dispatcher struct {
	source  stage.Source
	machine *stage.Machine
	sink    Sink
	rec     *activity.Recorder
	log     *slog.Logger
	now     func() time.Time

	rules   []model.IncentiveRule
	cycleID string

	mu   sync.Mutex
	last *Intent
}

func New(source stage.Source, machine *stage.Machine, sink Sink, rec *activity.Recorder, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		source:  source,
		machine: machine,
		sink:    sink,
		rec:     rec,
		log:     log,
		now:     time.Now,
	}
}

// UseIncentives arms grant evaluation for subsequent onboarding requests:
// the standing rules and the active cycle grants attribute to.
func (d *Dispatcher) UseIncentives(rules []model.IncentiveRule, cycleID string) {
	d.rules = rules
	d.cycleID = cycleID
}

// RequestStageChange proposes the transition and publishes it. A first-time
// onboard also evaluates the standing incentive rules and publishes the
// resulting grant.
func (d *Dispatcher) RequestStageChange(ctx context.Context, id string, target model.Stage, req stage.MoveRequest) (model.Appointment, error) {
	now := d.now()
	next, err := d.machine.Move(id, target, req, now)
	if err != nil {
		return model.Appointment{}, err
	}
	prior, _ := d.source.Appointment(id)
	in := d.intent(IntentStageChange, id, &next, now)
	if err := d.publish(ctx, in, id); err != nil {
		return model.Appointment{}, err
	}
	d.rememberPrior(in, prior)
	d.rec.Record(activity.ActionStageMoved,
		fmt.Sprintf("Moved %s to %s", next.Name, model.StageLabels[target]))
	d.grantIncentives(ctx, prior, next, now)
	return next, nil
}

// RequestEdit proposes a field edit and publishes it.
func (d *Dispatcher) RequestEdit(ctx context.Context, id string, req stage.EditRequest) (model.Appointment, error) {
	now := d.now()
	next, err := d.machine.Edit(id, req, now)
	if err != nil {
		return model.Appointment{}, err
	}
	prior, _ := d.source.Appointment(id)
	in := d.intent(IntentEdit, id, &next, now)
	if err := d.publish(ctx, in, id); err != nil {
		return model.Appointment{}, err
	}
	d.rememberPrior(in, prior)
	d.rec.Record(activity.ActionAppointmentEdit, fmt.Sprintf("Edited %s", next.Name))
	d.grantIncentives(ctx, prior, next, now)
	return next, nil
}

// RequestDelete publishes a delete intent for an existing record.
func (d *Dispatcher) RequestDelete(ctx context.Context, id string) error {
	appt, ok := d.source.Appointment(id)
	if !ok {
		return &model.NotFoundError{ID: id}
	}
	in := d.intent(IntentDelete, id, nil, d.now())
	if err := d.publish(ctx, in, id); err != nil {
		return err
	}
	// Keep the prior record on the undo slot so the delete can be restored.
	d.rememberPrior(in, appt)
	d.rec.Record(activity.ActionDeleted, fmt.Sprintf("Deleted %s", appt.Name))
	return nil
}

// RequestNotesSave publishes an updated notes field without touching the
// rest of the record.
func (d *Dispatcher) RequestNotesSave(ctx context.Context, id, notes string) (model.Appointment, error) {
	appt, ok := d.source.Appointment(id)
	if !ok {
		return model.Appointment{}, &model.NotFoundError{ID: id}
	}
	next := appt
	next.Notes = notes
	in := d.intent(IntentNotesSave, id, &next, d.now())
	if err := d.publish(ctx, in, id); err != nil {
		return model.Appointment{}, err
	}
	d.rec.Record(activity.ActionNotesSaved, fmt.Sprintf("Saved notes for %s", appt.Name))
	return next, nil
}

// Undo republishes the prior record of the most recent undoable action as a
// restore intent. Only one level is kept and it is consumed by use.
func (d *Dispatcher) Undo(ctx context.Context) (bool, error) {
	d.mu.Lock()
	last := d.last
	d.last = nil
	d.mu.Unlock()
	if last == nil {
		return false, nil
	}
	in := d.intent(IntentRestore, last.AppointmentID, last.Record, d.now())
	if err := d.publish(ctx, in, last.AppointmentID); err != nil {
		return false, err
	}
	return true, nil
}

// grantIncentives runs the standing rules when a record newly enters
// Onboarded. The grant rides its own intent after the stage change; a
// publish failure here is logged rather than unwinding the already-published
// mutation.
func (d *Dispatcher) grantIncentives(ctx context.Context, prior, next model.Appointment, now time.Time) {
	if len(d.rules) == 0 || prior.OnboardedAt != nil || next.OnboardedAt == nil {
		return
	}
	g := incentive.Evaluate(d.rules, next.UserID, next.ID, d.cycleID, now)
	if len(g.Incentives) == 0 {
		return
	}
	in := d.intent(IntentIncentiveGrant, next.ID, nil, now)
	in.Incentives = g.Incentives
	in.UsedRuleIDs = g.UsedRuleIDs
	if err := d.sink.Publish(ctx, in); err != nil {
		d.log.Error("publish incentive grant failed", "appointment_id", next.ID, "error", err)
		return
	}
	d.log.Info("incentive grant published",
		"appointment_id", next.ID,
		"grants", len(g.Incentives),
		"total_cents", g.TotalCents)
}

func (d *Dispatcher) intent(typ, id string, rec *model.Appointment, now time.Time) Intent {
	return Intent{
		ID:            uuid.NewString(),
		Type:          typ,
		AppointmentID: id,
		Record:        rec,
		RequestedAt:   now,
	}
}

// rememberPrior parks the pre-mutation record on the undo slot.
func (d *Dispatcher) rememberPrior(in Intent, prior model.Appointment) {
	d.mu.Lock()
	d.last = &Intent{
		ID:            in.ID,
		Type:          in.Type,
		AppointmentID: in.AppointmentID,
		Record:        &prior,
		RequestedAt:   in.RequestedAt,
	}
	d.mu.Unlock()
}

func (d *Dispatcher) publish(ctx context.Context, in Intent, id string) error {
	if err := d.sink.Publish(ctx, in); err != nil {
		d.log.Error("publish intent failed", "type", in.Type, "appointment_id", id, "error", err)
		return err
	}
	d.log.Debug("intent published", "type", in.Type, "appointment_id", id, "event_id", in.ID)
	return nil
}

// MemorySink collects intents in order, for tests and local runs.
type MemorySink struct {
	mu      sync.Mutex
	intents []Intent
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Publish(_ context.Context, in Intent) error {
	s.mu.Lock()
	s.intents = append(s.intents, in)
	s.mu.Unlock()
	return nil
}

// Intents returns a copy of everything published so far.
func (s *MemorySink) Intents() []Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Intent, len(s.intents))
	copy(out, s.intents)
	return out
}
