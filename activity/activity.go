// Package activity builds the audit entries recorded alongside pipeline
// mutations. Entries are handed to a caller-supplied sink; storage is the
// data layer's concern.
package activity

import (
	"time"

	"github.com/google/uuid"
)

// Well-known audit actions.
const (
	ActionStageMoved      = "STAGE_MOVED"
	ActionAppointmentEdit = "APPOINTMENT_EDITED"
	ActionDeleted         = "APPOINTMENT_DELETED"
	ActionNotesSaved      = "NOTES_SAVED"
	ActionReferralAdded   = "REFERRAL_ADDED"
	ActionReferralRemoved = "REFERRAL_REMOVED"
)

// Entry is one audit trail line.
type Entry struct {
	ID        string
	UserID    string
	UserName  string
	Action    string
	Details   string
	Timestamp time.Time
}

// Recorder stamps entries for one acting user and forwards them to a sink.
type Recorder struct {
	userID   string
	userName string
	sink     func(Entry)
	now      func() time.Time
}

// NewRecorder builds a recorder for the acting user. A nil sink discards
// entries, which keeps call sites unconditional.
func NewRecorder(userID, userName string, sink func(Entry)) *Recorder {
	return &Recorder{userID: userID, userName: userName, sink: sink, now: time.Now}
}

// Record emits one entry.
func (r *Recorder) Record(action, details string) Entry {
	e := Entry{
		ID:        uuid.NewString(),
		UserID:    r.userID,
		UserName:  r.userName,
		Action:    action,
		Details:   details,
		Timestamp: r.now(),
	}
	if r.sink != nil {
		r.sink(e)
	}
	return e
}
