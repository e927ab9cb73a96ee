package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stage is the discrete pipeline status of an appointment record.
type Stage string

const (
	StagePending     Stage = "PENDING"
	StageRescheduled Stage = "RESCHEDULED"
	StageNoShow      Stage = "NO_SHOW"
	StageOnboarded   Stage = "ONBOARDED"
	StageDeclined    Stage = "DECLINED"
	StageTransferred Stage = "TRANSFERRED"
	StageActivated   Stage = "ACTIVATED"
)

// StageLabels maps stages to their display names.
var StageLabels = map[Stage]string{
	StagePending:     "Upcoming",
	StageRescheduled: "Rescheduled",
	StageNoShow:      "Failed to Show",
	StageOnboarded:   "Onboarded",
	StageDeclined:    "Declined",
	StageTransferred: "Transferred",
	StageActivated:   "Activated",
}

// AppointmentType distinguishes standard set appointments from live transfers.
// It is assigned at creation and never changes.
type AppointmentType string

const (
	TypeAppointment AppointmentType = "appointment"
	TypeTransfer    AppointmentType = "transfer"
)

// OnboardType records how a deal was originally closed.
type OnboardType string

const (
	OnboardSelf     OnboardType = "self"
	OnboardTransfer OnboardType = "transfer"
)

// Appointment is a lead moving through the pipeline. Records are created and
// persisted by an external data layer; this package only reads them and
// proposes new states.
type Appointment struct {
	ID          string
	UserID      string
	Name        string
	Phone       string
	Email       string
	Notes       string
	ScheduledAt time.Time
	Stage       Stage
	Type        AppointmentType
	CreatedAt   time.Time

	// Set on entering Onboarded, cleared when the record leaves it.
	EarnedCents int64
	AEName      string
	OnboardedAt *time.Time

	// Maintained by the external referral import process, read-only here.
	ReferralCount   int
	LastReferralAt  *time.Time
	ReferralHistory []ReferralEntry

	NurtureDate *time.Time
	ActivatedAt *time.Time

	// Attribution snapshot captured when a deal activates, so later ownership
	// changes do not rewrite who originally closed it.
	OriginalUserID      string
	OriginalOnboardType OnboardType
	OriginalAEName      string
}

// ReferralEntry is one batch of referrals credited to an onboarded partner.
type ReferralEntry struct {
	ID          string
	Date        time.Time
	Count       int
	IncentiveID string
}

// PayCycle is a fixed calendar window used to bucket earnings for reporting.
// StartDate and EndDate are inclusive calendar dates.
type PayCycle struct {
	ID        string
	StartDate time.Time
	EndDate   time.Time
	Status    string
}

// EarningWindow is a per-cycle earnings snapshot for one viewer.
type EarningWindow struct {
	ID             string
	UserID         string
	StartDate      time.Time
	EndDate        time.Time
	TotalCents     int64
	OnboardedCount int
	IsClosed       bool
	Incentives     []Incentive
}

// Incentive is a granted bonus attributed to a cycle.
type Incentive struct {
	ID                   string
	UserID               string
	AmountCents          int64
	Label                string
	AppliedCycleID       string
	RuleID               string
	RelatedAppointmentID string
	CreatedAt            time.Time
}

// IncentiveRule describes a standing bonus: one-time, per-deal, or a capped
// up-for-grabs pot. UserID "team" targets every agent.
type IncentiveRule struct {
	ID           string
	UserID       string
	Type         string
	ValueCents   int64
	Label        string
	StartTime    *time.Time
	EndTime      *time.Time
	TargetCount  int
	CurrentCount int
	IsActive     bool
	CreatedAt    time.Time
}

// Role of a viewer. Admins see everything and are exempt from gamification.
type Role string

const (
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// User is an agent or admin account supplied by the external data layer.
type User struct {
	ID                string
	Name              string
	Email             string
	Role              Role
	PreferredDialer   string
	DismissedCycleIDs []string
	CreatedAt         time.Time
}

// Cents converts a cent amount into a decimal dollar value.
func Cents(c int64) decimal.Decimal {
	return decimal.NewFromInt(c).Div(decimal.NewFromInt(100))
}
