// Package incentive evaluates standing bonus rules when a deal onboards.
package incentive

import (
	"time"

	"github.com/google/uuid"

	"github.com/md-rashed-zaman/pipetrack/model"
)

// TeamTarget is the rule audience meaning every agent.
const TeamTarget = "team"

// Grant is the outcome of evaluating the active rules for one onboarding:
// the incentive records to persist, the rules whose usage count advanced, and
// the combined bonus. Persisting both is the data layer's job.
type Grant struct {
	Incentives  []model.Incentive
	UsedRuleIDs []string
	TotalCents  int64
}

// Evaluate applies every active rule that targets the agent, is inside its
// time window, and still has capacity. Rules with no target count are
// unlimited.
func Evaluate(rules []model.IncentiveRule, userID, appointmentID, cycleID string, now time.Time) Grant {
	var g Grant
	for _, r := range rules {
		if !r.IsActive {
			continue
		}
		if r.UserID != TeamTarget && r.UserID != userID {
			continue
		}
		if r.StartTime != nil && now.Before(*r.StartTime) {
			continue
		}
		if r.EndTime != nil && now.After(*r.EndTime) {
			continue
		}
		if r.TargetCount > 0 && r.CurrentCount >= r.TargetCount {
			continue
		}

		g.Incentives = append(g.Incentives, model.Incentive{
			ID:                   uuid.NewString(),
			UserID:               userID,
			AmountCents:          r.ValueCents,
			Label:                r.Label,
			AppliedCycleID:       cycleID,
			RuleID:               r.ID,
			RelatedAppointmentID: appointmentID,
			CreatedAt:            now,
		})
		g.UsedRuleIDs = append(g.UsedRuleIDs, r.ID)
		g.TotalCents += r.ValueCents
	}
	return g
}
