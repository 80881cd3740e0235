// Package recipient defines the closed set of abstract recipient rules and
// the event kind → rules routing table. Resolution against the directory
// happens in the app layer; this package is the pure table.
package recipient

import "github.com/example/brigadir/internal/core/event"

// Rule is an abstract recipient label resolved to concrete user IDs at
// fire-time.
type Rule string

const (
	// RuleAssignee targets the direct assignee carried in context.
	RuleAssignee Rule = "assignee"
	// RuleSigner targets the signer carried in context.
	RuleSigner Rule = "signer"
	// RuleProjectManager targets project managers of the object.
	RuleProjectManager Rule = "project_manager"
	// RuleDepartmentHead targets the head of the context's department.
	RuleDepartmentHead Rule = "department_head"
	// RuleAllDepartmentHeads targets every department head of the object.
	RuleAllDepartmentHeads Rule = "all_department_heads"
	// RuleAllTeam targets the whole object team.
	RuleAllTeam Rule = "all_team"

	// Department-role rules resolved through object-scoped role membership.
	RuleProduction      Rule = "production"
	RuleSupply          Rule = "supply"
	RuleConstructionITR Rule = "construction_itr"
	RulePTO             Rule = "pto"
	RuleAdmin           Rule = "admin"
)

// routing maps each event kind to its recipient rules. Rule results are
// unioned with set semantics; the triggering actor is removed afterwards.
var routing = map[event.Kind][]Rule{
	event.ContractSigned:            {RuleProjectManager},
	event.GPRCreated:                {RuleAllDepartmentHeads},
	event.GPRSignedByAll:            {RuleAllTeam},
	event.ProjectCompleted:          {RuleAllTeam},
	event.TaskAssigned:              {RuleAssignee},
	event.TaskCompleted:             {RuleDepartmentHead, RuleProjectManager},
	event.TaskOverdue:               {RuleAssignee, RuleDepartmentHead, RuleProjectManager},
	event.TaskBlocked:               {RuleProjectManager},
	event.GPRSignRequest:            {RuleSigner},
	event.GPRSigned:                 {RuleProjectManager},
	event.SupplyDelayed:             {RuleProjectManager, RuleProduction, RuleConstructionITR},
	event.MaterialShipped:           {RuleConstructionITR, RuleProjectManager},
	event.MaterialReceived:          {RuleSupply, RuleProjectManager},
	event.ConstructionStageDone:     {RulePTO, RuleProjectManager},
	event.ConstructionStageRejected: {RuleConstructionITR},
	event.DefectReported:            {RuleProduction, RuleProjectManager},
	event.DefectResolved:            {RuleConstructionITR, RuleProjectManager},
	event.KMDIssued:                 {RuleProduction, RuleProjectManager},
	event.PlanFactRequest:           {RuleAssignee},
	event.PlanFactOverdue:           {RuleAssignee},
	event.WeeklyAudit:               {RuleAssignee},
	event.DeadlineApproaching:       {RuleAssignee},
	event.EscalationL1:              {RuleAssignee},
	event.EscalationL2:              {RuleDepartmentHead},
	event.EscalationL3:              {RuleAdmin, RuleProjectManager},
	event.CascadeShift:              {RuleProjectManager, RuleSupply, RuleConstructionITR},
}

// RulesFor returns the recipient rules for kind, or nil when the kind routes
// to nobody.
func RulesFor(kind event.Kind) []Rule {
	return routing[kind]
}
