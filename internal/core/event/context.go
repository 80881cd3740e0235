package event

// Well-known context keys. References (IDs) travel as int64, rendering values
// as strings or ints depending on the template placeholder.
const (
	KeyObjectID      = "object_id"
	KeyObjectName    = "object_name"
	KeyEntityType    = "entity_type"
	KeyEntityID      = "entity_id"
	KeyAssigneeID    = "assignee_id"
	KeySignerID      = "signer_id"
	KeyTriggeredByID = "triggered_by_id"
	KeyTriggeredBy   = "triggered_by"
	KeyDepartment    = "department"
	KeyMaterialName  = "material_name"
	KeyTriggerMat    = "trigger_material"
	KeyDelayDays     = "delay_days"
	KeyAffectedTasks = "affected_tasks"
	KeyExpiresAt     = "expires_at"
)

// Context carries the event payload: entity references plus rendering values.
type Context map[string]any

// Int64 returns the context value under key as int64, or 0 when absent or of
// another type. IDs set by the CLI/REST layer may arrive as int or int64.
func (c Context) Int64(key string) int64 {
	switch v := c[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// Int returns the context value under key as int, or 0.
func (c Context) Int(key string) int {
	return int(c.Int64(key))
}

// String returns the context value under key as string, or "".
func (c Context) String(key string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}

// Keys returns the context's key set in unspecified order, for audit entries
// that must not record payload values.
func (c Context) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// Clone returns a shallow copy. Side-effect handlers derive follow-up contexts
// without mutating the originating event's payload.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
