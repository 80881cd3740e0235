package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/example/brigadir/internal/core/event"
	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/primary"
	"github.com/example/brigadir/internal/ports/secondary"
)

// fakeClock implements secondary.Clock with a settable instant.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// mockNotificationRepository implements secondary.NotificationRepository for testing.
type mockNotificationRepository struct {
	notifications map[string]*models.Notification
	order         []string
	nextID        int
	createErr     error
	// createErrFor fails creates for specific recipients only.
	createErrFor map[int64]error
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{
		notifications: make(map[string]*models.Notification),
		nextID:        1,
		createErrFor:  make(map[int64]error),
	}
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	if err := m.createErrFor[n.RecipientID]; err != nil {
		return err
	}
	stored := *n
	m.notifications[n.ID] = &stored
	m.order = append(m.order, n.ID)
	return nil
}

func (m *mockNotificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, errors.New("not found")
}

func (m *mockNotificationRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("NTF-%04d", id), nil
}

func (m *mockNotificationRepository) List(ctx context.Context, filters secondary.NotificationFilters) ([]*models.Notification, error) {
	var result []*models.Notification
	for i := len(m.order) - 1; i >= 0; i-- {
		n := m.notifications[m.order[i]]
		if filters.RecipientID != 0 && n.RecipientID != filters.RecipientID {
			continue
		}
		if filters.Category != "" && n.Category != filters.Category {
			continue
		}
		if filters.UnreadOnly && n.IsRead {
			continue
		}
		if filters.ObjectID != 0 && (!n.ObjectID.Valid || n.ObjectID.Int64 != filters.ObjectID) {
			continue
		}
		if filters.MinEscalation != 0 && n.EscalationLevel < filters.MinEscalation {
			continue
		}
		result = append(result, n)
		if filters.Limit > 0 && len(result) == filters.Limit {
			break
		}
	}
	return result, nil
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	count := 0
	for _, n := range m.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepository) ListPendingEscalation(ctx context.Context) ([]*models.Notification, error) {
	var result []*models.Notification
	for _, id := range m.order {
		n := m.notifications[id]
		if !n.IsRead && n.IsActionable && n.EscalationLevel < models.EscalationMax {
			result = append(result, n)
		}
	}
	return result, nil
}

func (m *mockNotificationRepository) MarkEscalated(ctx context.Context, id string, newLevel int) (bool, error) {
	n, ok := m.notifications[id]
	if !ok {
		return false, errors.New("not found")
	}
	if n.IsRead || n.EscalationLevel >= newLevel {
		return false, nil
	}
	n.EscalationLevel = newLevel
	return true, nil
}

func (m *mockNotificationRepository) MarkRead(ctx context.Context, id string, recipientID int64) (bool, error) {
	n, ok := m.notifications[id]
	if !ok {
		return false, errors.New("not found")
	}
	if n.IsRead || n.RecipientID != recipientID {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (m *mockNotificationRepository) MarkActioned(ctx context.Context, id string, recipientID int64, actionKey string) (bool, error) {
	return m.MarkRead(ctx, id, recipientID)
}

func (m *mockNotificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	removed := 0
	for id, n := range m.notifications {
		if n.ExpiresAt.Valid && n.ExpiresAt.Time.Before(now) {
			delete(m.notifications, id)
			removed++
		}
	}
	return removed, nil
}

// mockDirectory implements secondary.Directory for testing.
type mockDirectory struct {
	users map[int64]*models.User
	// roles is keyed by "objectID/role".
	roles map[string][]int64
	heads map[string]int64
	teams map[int64][]int64
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		users: make(map[int64]*models.User),
		roles: make(map[string][]int64),
		heads: make(map[string]int64),
		teams: make(map[int64][]int64),
	}
}

func (m *mockDirectory) addUser(id int64, name, role string) {
	m.users[id] = &models.User{ID: id, FullName: name, ChatID: id * 100, Role: role, IsActive: true}
}

func (m *mockDirectory) setRole(objectID int64, role string, ids ...int64) {
	m.roles[fmt.Sprintf("%d/%s", objectID, role)] = ids
}

func (m *mockDirectory) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func (m *mockDirectory) UsersWithRole(ctx context.Context, objectID int64, role string) ([]int64, error) {
	return m.roles[fmt.Sprintf("%d/%s", objectID, role)], nil
}

func (m *mockDirectory) DepartmentHead(ctx context.Context, objectID int64, department string) (int64, error) {
	return m.heads[fmt.Sprintf("%d/%s", objectID, department)], nil
}

func (m *mockDirectory) AllDepartmentHeads(ctx context.Context, objectID int64) ([]int64, error) {
	var out []int64
	for key, id := range m.heads {
		var oid int64
		var dep string
		fmt.Sscanf(key, "%d/%s", &oid, &dep)
		if oid == objectID {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m *mockDirectory) AllTeam(ctx context.Context, objectID int64) ([]int64, error) {
	return m.teams[objectID], nil
}

// pushRecord captures one delivery attempt.
type pushRecord struct {
	chatID int64
	n      *models.Notification
}

// mockPushChannel implements secondary.PushChannel for testing.
type mockPushChannel struct {
	delivered []pushRecord
	// failFor counts down per chat: positive means fail that many attempts.
	failFor map[int64]int
}

func newMockPushChannel() *mockPushChannel {
	return &mockPushChannel{failFor: make(map[int64]int)}
}

func (m *mockPushChannel) Deliver(ctx context.Context, chatID int64, n *models.Notification) error {
	if m.failFor[chatID] > 0 {
		m.failFor[chatID]--
		return errors.New("push unavailable")
	}
	m.delivered = append(m.delivered, pushRecord{chatID: chatID, n: n})
	return nil
}

// auditEntry captures one audit call of any kind.
type auditEntry struct {
	kind        string
	eventKind   string
	entityType  string
	entityID    int64
	contextKeys []string
	fromLevel   int
	toLevel     int
	objectID    int64
	material    string
	affected    int
	aborted     bool
	actionKey   string
	itemID      int64
	oldStart    time.Time
	newStart    time.Time
}

// mockAuditWriter implements secondary.AuditWriter for testing.
type mockAuditWriter struct {
	entries []auditEntry
}

func (m *mockAuditWriter) LogEvent(ctx context.Context, eventKind, entityType string, entityID int64, contextKeys []string) error {
	m.entries = append(m.entries, auditEntry{kind: "event", eventKind: eventKind, entityType: entityType, entityID: entityID, contextKeys: contextKeys})
	return nil
}

func (m *mockAuditWriter) LogEscalation(ctx context.Context, notificationID string, fromLevel, toLevel int) error {
	m.entries = append(m.entries, auditEntry{kind: "escalation", eventKind: notificationID, fromLevel: fromLevel, toLevel: toLevel})
	return nil
}

func (m *mockAuditWriter) LogCascade(ctx context.Context, objectID int64, material string, affected int, aborted bool) error {
	m.entries = append(m.entries, auditEntry{kind: "cascade", objectID: objectID, material: material, affected: affected, aborted: aborted})
	return nil
}

func (m *mockAuditWriter) LogShift(ctx context.Context, itemID int64, oldStart, oldEnd, newStart, newEnd time.Time) error {
	m.entries = append(m.entries, auditEntry{kind: "shift", itemID: itemID, oldStart: oldStart, newStart: newStart})
	return nil
}

func (m *mockAuditWriter) LogAction(ctx context.Context, notificationID, actionKey string) error {
	m.entries = append(m.entries, auditEntry{kind: "action", eventKind: notificationID, actionKey: actionKey})
	return nil
}

func (m *mockAuditWriter) byKind(kind string) []auditEntry {
	var out []auditEntry
	for _, e := range m.entries {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// mockScheduleRepository implements secondary.ScheduleItemRepository for testing.
type mockScheduleRepository struct {
	items        []*models.ScheduleItem
	materialDeps map[string][]int64
	updates      map[int64][2]time.Time
}

func newMockScheduleRepository() *mockScheduleRepository {
	return &mockScheduleRepository{
		materialDeps: make(map[string][]int64),
		updates:      make(map[int64][2]time.Time),
	}
}

func (m *mockScheduleRepository) ItemsForObject(ctx context.Context, objectID int64) ([]*models.ScheduleItem, error) {
	var out []*models.ScheduleItem
	for _, it := range m.items {
		if it.ObjectID == objectID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *mockScheduleRepository) DependentsOfMaterial(ctx context.Context, objectID int64, material string) ([]int64, error) {
	return m.materialDeps[material], nil
}

func (m *mockScheduleRepository) UpdateDates(ctx context.Context, itemID int64, start, end time.Time) error {
	m.updates[itemID] = [2]time.Time{start, end}
	return nil
}

// mockTaskRepository implements secondary.TaskRepository for testing.
type mockTaskRepository struct {
	tasks map[int64]*models.Task
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{tasks: make(map[int64]*models.Task)}
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	if t, ok := m.tasks[id]; ok {
		return t, nil
	}
	return nil, errors.New("not found")
}

func (m *mockTaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]*models.Task, error) {
	var out []*models.Task
	for _, t := range m.tasks {
		if t.Status == models.TaskStatusInProgress && t.Deadline.Valid && t.Deadline.Time.Before(now) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockTaskRepository) ListDueWithin(ctx context.Context, now time.Time, window time.Duration) ([]*models.Task, error) {
	var out []*models.Task
	for _, t := range m.tasks {
		if t.Status != models.TaskStatusInProgress || !t.Deadline.Valid {
			continue
		}
		if t.Deadline.Time.After(now) && !t.Deadline.Time.After(now.Add(window)) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockTaskRepository) CountOpenForObject(ctx context.Context, objectID int64) (int, error) {
	count := 0
	for _, t := range m.tasks {
		if t.ObjectID == objectID && t.Status != models.TaskStatusDone {
			count++
		}
	}
	return count, nil
}

func (m *mockTaskRepository) MarkOverdue(ctx context.Context, id int64) (bool, error) {
	t, ok := m.tasks[id]
	if !ok {
		return false, errors.New("not found")
	}
	if t.Status == models.TaskStatusOverdue {
		return false, nil
	}
	t.Status = models.TaskStatusOverdue
	return true, nil
}

// mockSupplyRepository implements secondary.SupplyRepository for testing.
type mockSupplyRepository struct {
	orders map[int64]*models.SupplyOrder
}

func newMockSupplyRepository() *mockSupplyRepository {
	return &mockSupplyRepository{orders: make(map[int64]*models.SupplyOrder)}
}

func (m *mockSupplyRepository) GetByID(ctx context.Context, id int64) (*models.SupplyOrder, error) {
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, errors.New("not found")
}

func (m *mockSupplyRepository) ListDelayed(ctx context.Context, now time.Time) ([]*models.SupplyOrder, error) {
	var out []*models.SupplyOrder
	for _, o := range m.orders {
		if o.Status == models.SupplyStatusOrdered && o.ExpectedDate.Valid && o.ExpectedDate.Time.Before(now) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockSupplyRepository) MarkDelayed(ctx context.Context, id int64) (bool, error) {
	o, ok := m.orders[id]
	if !ok {
		return false, errors.New("not found")
	}
	if o.Status == models.SupplyStatusDelayed {
		return false, nil
	}
	o.Status = models.SupplyStatusDelayed
	return true, nil
}

func (m *mockSupplyRepository) CountDelayed(ctx context.Context) (int, error) {
	count := 0
	for _, o := range m.orders {
		if o.Status == models.SupplyStatusDelayed {
			count++
		}
	}
	return count, nil
}

// mockObjectRepository implements secondary.ObjectRepository for testing.
type mockObjectRepository struct {
	objects map[int64]*models.ConstructionObject
}

func newMockObjectRepository() *mockObjectRepository {
	return &mockObjectRepository{objects: make(map[int64]*models.ConstructionObject)}
}

func (m *mockObjectRepository) GetByID(ctx context.Context, id int64) (*models.ConstructionObject, error) {
	if o, ok := m.objects[id]; ok {
		return o, nil
	}
	return nil, errors.New("not found")
}

func (m *mockObjectRepository) ListActive(ctx context.Context) ([]*models.ConstructionObject, error) {
	var out []*models.ConstructionObject
	for _, o := range m.objects {
		if o.Status == models.ObjectStatusActive {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// firedEvent captures one Fire call on the mock trigger.
type firedEvent struct {
	kind event.Kind
	evt  event.Context
}

// mockTriggerService implements primary.TriggerService for testing the
// services that fire events.
type mockTriggerService struct {
	fired   []firedEvent
	fireErr error
}

func (m *mockTriggerService) Fire(ctx context.Context, req primary.FireRequest) (*primary.FireResult, error) {
	if m.fireErr != nil {
		return nil, m.fireErr
	}
	m.fired = append(m.fired, firedEvent{kind: req.Kind, evt: req.Context})
	return &primary.FireResult{}, nil
}

func (m *mockTriggerService) kinds() []event.Kind {
	out := make([]event.Kind, len(m.fired))
	for i, f := range m.fired {
		out[i] = f.kind
	}
	return out
}

// mockCascadeService implements primary.CascadeService for trigger tests.
type mockCascadeService struct {
	requests []primary.RecalculateRequest
	affected int
	err      error
}

func (m *mockCascadeService) Recalculate(ctx context.Context, req primary.RecalculateRequest) (*primary.RecalculateResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.requests = append(m.requests, req)
	return &primary.RecalculateResult{AffectedTasks: m.affected}, nil
}
