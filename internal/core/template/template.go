// Package template holds the static notification template registry:
// event kind → priority, category, message formats, inline actions, deep link.
// Pure lookup and rendering; no state, no side effects.
package template

import (
	"regexp"
	"strconv"

	"github.com/example/brigadir/internal/core/event"
	"github.com/example/brigadir/internal/models"
)

// Template fixes everything about a notification except its recipient and
// the rendered context values.
type Template struct {
	Priority        string
	Category        string
	Title           string
	Body            string
	Actions         []models.Action
	DeepLink        string
	EscalationLevel int // preset level for ESCALATION_L* notifications
}

// For returns the template registered for kind, or nil when the event
// produces no notification.
func For(kind event.Kind) *Template {
	if t, ok := registry[kind]; ok {
		return &t
	}
	return nil
}

var placeholderPattern = regexp.MustCompile(`\{([a-z0-9_]+)\}`)

// Render substitutes {placeholder} values from ctx into format. When any
// placeholder has no context value the literal format string is returned
// unchanged; rendering never fails.
func Render(format string, ctx event.Context) string {
	if format == "" {
		return ""
	}
	missing := false
	out := placeholderPattern.ReplaceAllStringFunc(format, func(m string) string {
		key := m[1 : len(m)-1]
		v, ok := ctx[key]
		if !ok {
			missing = true
			return m
		}
		return formatValue(v)
	})
	if missing {
		return format
	}
	return out
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}
