// Package cascade computes the schedule impact of a supply delay: every item
// downstream of a delayed dependency shifts forward. The walk is pure; the
// app layer applies the resulting shifts through the repository.
//
// Shift policy: pure delta shift. Every reachable dependent moves by exactly
// the delay, which keeps cascades associative: shifting by d1 then d2 lands
// every item where a single shift by d1+d2 would.
package cascade

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/example/brigadir/internal/models"
)

// ErrCycleDetected signals that the dependency graph reaches back into
// itself. The walk aborts rather than shifting items twice; callers must
// surface this, not swallow it.
var ErrCycleDetected = errors.New("schedule dependency cycle detected")

// CycleError carries one witness path for the detected cycle.
type CycleError struct {
	Path []int64
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("schedule dependency cycle detected: %v", e.Path)
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// Plan walks the dependency graph from the root items and returns the shifts
// to apply, each item at most once. Roots are the items directly blocked by
// the delayed material; successors are reached over depends-on edges.
//
// On a cycle the walk stops and the shifts accumulated before detection are
// returned together with a *CycleError. Traversal order is deterministic:
// roots and successor lists are visited in ascending item ID order.
func Plan(items []*models.ScheduleItem, roots []int64, delayDays int) ([]models.ItemShift, error) {
	if delayDays <= 0 || len(roots) == 0 {
		return nil, nil
	}

	byID := make(map[int64]*models.ScheduleItem, len(items))
	successors := make(map[int64][]int64, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	for _, item := range items {
		for _, dep := range item.DependsOn {
			if _, ok := byID[dep]; ok {
				successors[dep] = append(successors[dep], item.ID)
			}
		}
	}
	for id := range successors {
		sort.Slice(successors[id], func(i, j int) bool { return successors[id][i] < successors[id][j] })
	}

	sortedRoots := append([]int64(nil), roots...)
	sort.Slice(sortedRoots, func(i, j int) bool { return sortedRoots[i] < sortedRoots[j] })

	const (
		white = 0 // unvisited
		gray  = 1 // on the current walk stack
		black = 2 // shifted, subtree done
	)

	delta := time.Duration(delayDays) * 24 * time.Hour
	color := make(map[int64]int, len(items))
	var shifts []models.ItemShift
	var stack []int64

	var walk func(id int64) *CycleError
	walk = func(id int64) *CycleError {
		item, ok := byID[id]
		if !ok {
			return nil
		}
		switch color[id] {
		case black:
			// Diamond join: already shifted this call, skip.
			return nil
		case gray:
			// Back edge: reconstruct the witness path from the stack.
			cycle := []int64{id}
			for i := len(stack) - 1; i >= 0 && stack[i] != id; i-- {
				cycle = append(cycle, stack[i])
			}
			cycle = append(cycle, id)
			reverse(cycle)
			return &CycleError{Path: cycle}
		}

		color[id] = gray
		stack = append(stack, id)

		shifts = append(shifts, models.ItemShift{
			ItemID:   id,
			OldStart: item.PlannedStart,
			OldEnd:   item.PlannedEnd,
			NewStart: item.PlannedStart.Add(delta),
			NewEnd:   item.PlannedEnd.Add(delta),
		})

		for _, succ := range successors[id] {
			if cerr := walk(succ); cerr != nil {
				return cerr
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
		return nil
	}

	for _, root := range sortedRoots {
		if cerr := walk(root); cerr != nil {
			return shifts, cerr
		}
	}
	return shifts, nil
}

func reverse(s []int64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
