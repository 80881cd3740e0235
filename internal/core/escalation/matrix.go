// Package escalation holds the per-notification-type timing table and the
// pure level-transition guard. The matrix is non-disableable: there is no
// per-user opt-out, and the clock always runs from the original
// notification's creation time.
package escalation

import "time"

// Rule fixes the escalation thresholds for one notification type.
// A zero L3 combined with a non-zero EveningCutoffHour replaces the
// elapsed-time L3 rule with an absolute wall-clock rule: escalate to the
// director when the cutoff hour of the creation day is reached.
type Rule struct {
	L1                time.Duration
	L2                time.Duration
	L3                time.Duration
	EveningCutoffHour int
}

// matrix maps notification type (lower-cased event kind) to its thresholds.
var matrix = map[string]Rule{
	"task_assigned":           {L1: 60 * time.Minute, L2: 240 * time.Minute, L3: 1440 * time.Minute},
	"task_overdue":            {L1: 30 * time.Minute, L2: 120 * time.Minute, L3: 480 * time.Minute},
	"gpr_sign_request":        {L1: 120 * time.Minute, L2: 480 * time.Minute, L3: 1440 * time.Minute},
	"plan_fact_request":       {L1: 60 * time.Minute, L2: 120 * time.Minute, EveningCutoffHour: 20},
	"material_shipped":        {L1: 30 * time.Minute, L2: 120 * time.Minute, L3: 480 * time.Minute},
	"defect_reported":         {L1: 30 * time.Minute, L2: 60 * time.Minute, L3: 240 * time.Minute},
	"construction_stage_done": {L1: 60 * time.Minute, L2: 240 * time.Minute, L3: 1440 * time.Minute},
	// task_blocked has no reminder stage: it goes straight to the manager
	// after four hours without arbitration.
	"task_blocked": {L1: 240 * time.Minute, L2: 240 * time.Minute, L3: 1440 * time.Minute},
}

// RuleFor returns the escalation rule for a notification type. The second
// return is false for types that never escalate.
func RuleFor(notificationType string) (Rule, bool) {
	r, ok := matrix[notificationType]
	return r, ok
}

// NextLevel computes the level a pending notification should escalate to at
// time now, or 0 when no transition is due. Levels are strictly monotonic:
// the result is always greater than currentLevel and at most 3. A
// notification that has sat past several thresholds still escalates one
// level per sweep, matching one-step-at-a-time semantics.
func NextLevel(r Rule, createdAt, now time.Time, currentLevel int) int {
	elapsed := now.Sub(createdAt)

	if currentLevel < 1 && elapsed >= r.L1 {
		return 1
	}
	if currentLevel < 2 && elapsed >= r.L2 {
		return 2
	}
	if currentLevel < 3 {
		if r.L3 > 0 && elapsed >= r.L3 {
			return 3
		}
		if r.L3 == 0 && r.EveningCutoffHour > 0 && pastCutoff(r.EveningCutoffHour, createdAt, now) {
			return 3
		}
	}
	return 0
}

// pastCutoff reports whether now has reached the cutoff hour on the
// notification's creation day (or any later day).
func pastCutoff(hour int, createdAt, now time.Time) bool {
	cutoff := time.Date(createdAt.Year(), createdAt.Month(), createdAt.Day(), hour, 0, 0, 0, createdAt.Location())
	if !createdAt.Before(cutoff) {
		// Created after the cutoff: the rule applies the next day.
		cutoff = cutoff.AddDate(0, 0, 1)
	}
	return !now.Before(cutoff)
}

// HoursElapsed returns elapsed hours rounded to one decimal, the value
// rendered into escalation notification bodies.
func HoursElapsed(createdAt, now time.Time) float64 {
	h := now.Sub(createdAt).Hours()
	return float64(int(h*10+0.5)) / 10
}
