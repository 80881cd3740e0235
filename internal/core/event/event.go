// Package event defines the closed set of business events the engine reacts to
// and the context payload carried with each firing.
package event

// Kind identifies a business event. The set is closed: firing a Kind outside
// this enumeration is a logged no-op, never an error.
type Kind string

// Object lifecycle events
const (
	ContractSigned     Kind = "CONTRACT_SIGNED"
	GPRCreated         Kind = "GPR_CREATED"
	GPRSignedByAll     Kind = "GPR_SIGNED_BY_ALL"
	ObjectStatusChange Kind = "OBJECT_STATUS_CHANGE"
	ProjectCompleted   Kind = "PROJECT_COMPLETED"
)

// Task events
const (
	TaskAssigned  Kind = "TASK_ASSIGNED"
	TaskCompleted Kind = "TASK_COMPLETED"
	TaskOverdue   Kind = "TASK_OVERDUE"
	TaskBlocked   Kind = "TASK_BLOCKED"
)

// GPR (production schedule) events
const (
	GPRSignRequest Kind = "GPR_SIGN_REQUEST"
	GPRSigned      Kind = "GPR_SIGNED"
)

// Supply chain events
const (
	SupplyDelayed    Kind = "SUPPLY_DELAYED"
	MaterialShipped  Kind = "MATERIAL_SHIPPED"
	MaterialReceived Kind = "MATERIAL_RECEIVED"
)

// Construction events
const (
	ConstructionStageDone     Kind = "CONSTRUCTION_STAGE_DONE"
	ConstructionStageRejected Kind = "CONSTRUCTION_STAGE_REJECTED"
	KMDIssued                 Kind = "KMD_ISSUED"
	DefectReported            Kind = "DEFECT_REPORTED"
	DefectResolved            Kind = "DEFECT_RESOLVED"
)

// Scheduled events
const (
	PlanFactRequest     Kind = "PLAN_FACT_REQUEST"
	PlanFactOverdue     Kind = "PLAN_FACT_OVERDUE"
	WeeklyAudit         Kind = "WEEKLY_AUDIT"
	DeadlineApproaching Kind = "DEADLINE_APPROACHING"
)

// Escalation and cascade events (fired by the engine itself)
const (
	EscalationL1 Kind = "ESCALATION_L1"
	EscalationL2 Kind = "ESCALATION_L2"
	CascadeShift Kind = "CASCADE_SHIFT"
	EscalationL3 Kind = "ESCALATION_L3"
)

// allKinds enumerates every valid Kind for validation.
var allKinds = map[Kind]struct{}{
	ContractSigned: {}, GPRCreated: {}, GPRSignedByAll: {}, ObjectStatusChange: {}, ProjectCompleted: {},
	TaskAssigned: {}, TaskCompleted: {}, TaskOverdue: {}, TaskBlocked: {},
	GPRSignRequest: {}, GPRSigned: {},
	SupplyDelayed: {}, MaterialShipped: {}, MaterialReceived: {},
	ConstructionStageDone: {}, ConstructionStageRejected: {}, KMDIssued: {}, DefectReported: {}, DefectResolved: {},
	PlanFactRequest: {}, PlanFactOverdue: {}, WeeklyAudit: {}, DeadlineApproaching: {},
	EscalationL1: {}, EscalationL2: {}, EscalationL3: {}, CascadeShift: {},
}

// Valid reports whether k is a member of the closed event enumeration.
func (k Kind) Valid() bool {
	_, ok := allKinds[k]
	return ok
}

// EscalationKind returns the escalation event for a level in 1..3.
func EscalationKind(level int) Kind {
	switch level {
	case 1:
		return EscalationL1
	case 2:
		return EscalationL2
	default:
		return EscalationL3
	}
}

// NotificationType is the stored notification type derived from the event kind:
// the lower-cased kind name (TASK_ASSIGNED → "task_assigned").
func (k Kind) NotificationType() string {
	b := []byte(k)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
