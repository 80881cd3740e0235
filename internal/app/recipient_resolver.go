package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/brigadir/internal/core/event"
	"github.com/example/brigadir/internal/core/recipient"
	"github.com/example/brigadir/internal/ports/secondary"
)

// recipientResolver turns abstract recipient rules into concrete user IDs
// using the event context and the directory.
type recipientResolver struct {
	directory secondary.Directory
}

// Resolve returns the deduplicated recipient set for an event, sorted by ID,
// with the triggering actor removed. Rules that resolve to nobody are
// skipped silently; a directory failure aborts the whole resolution.
func (r *recipientResolver) Resolve(ctx context.Context, kind event.Kind, evt event.Context) ([]int64, error) {
	rules := recipient.RulesFor(kind)
	if len(rules) == 0 {
		return nil, nil
	}

	objectID := evt.Int64(event.KeyObjectID)
	seen := make(map[int64]struct{})

	add := func(ids ...int64) {
		for _, id := range ids {
			if id != 0 {
				seen[id] = struct{}{}
			}
		}
	}

	for _, rule := range rules {
		switch rule {
		case recipient.RuleAssignee:
			add(evt.Int64(event.KeyAssigneeID))
		case recipient.RuleSigner:
			add(evt.Int64(event.KeySignerID))
		case recipient.RuleDepartmentHead:
			head, err := r.directory.DepartmentHead(ctx, objectID, evt.String(event.KeyDepartment))
			if err != nil {
				return nil, fmt.Errorf("failed to resolve department head: %w", err)
			}
			add(head)
		case recipient.RuleAllDepartmentHeads:
			heads, err := r.directory.AllDepartmentHeads(ctx, objectID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve department heads: %w", err)
			}
			add(heads...)
		case recipient.RuleAllTeam:
			team, err := r.directory.AllTeam(ctx, objectID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve object team: %w", err)
			}
			add(team...)
		case recipient.RuleAdmin:
			// Admins and directors are global, not object-scoped.
			ids, err := r.directory.UsersWithRole(ctx, 0, string(rule))
			if err != nil {
				return nil, fmt.Errorf("failed to resolve admins: %w", err)
			}
			add(ids...)
		default:
			ids, err := r.directory.UsersWithRole(ctx, objectID, string(rule))
			if err != nil {
				return nil, fmt.Errorf("failed to resolve role %s: %w", rule, err)
			}
			add(ids...)
		}
	}

	// Never notify the actor about their own action.
	delete(seen, evt.Int64(event.KeyTriggeredByID))

	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
