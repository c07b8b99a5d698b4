package events

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypePositionCreated   = "position.created"
	EventTypePositionUpdated   = "position.updated"
	EventTypePositionDeleted   = "position.deleted"
	EventTypeDepartmentCreated = "department.created"
	EventTypeDepartmentUpdated = "department.updated"
	EventTypeDepartmentDeleted = "department.deleted"
	EventTypeEmployeeCreated   = "employee.created"
	EventTypeEmployeeUpdated   = "employee.updated"
	EventTypeUserRegistered    = "user.registered"
	EventTypeUserUpdated       = "user.updated"
)

// KnownEventTypes lists every event type the services publish.
var KnownEventTypes = []string{
	EventTypePositionCreated,
	EventTypePositionUpdated,
	EventTypePositionDeleted,
	EventTypeDepartmentCreated,
	EventTypeDepartmentUpdated,
	EventTypeDepartmentDeleted,
	EventTypeEmployeeCreated,
	EventTypeEmployeeUpdated,
	EventTypeUserRegistered,
	EventTypeUserUpdated,
}

// EntityOf returns the entity prefix of a known event type, e.g. "position" for "position.created".
func EntityOf(eventType string) (string, bool) {
	if !slices.Contains(KnownEventTypes, eventType) {
		return "", false
	}
	entity, _, _ := strings.Cut(eventType, ".")
	return entity, true
}

// EntityEvent records a committed change to one row.
type EntityEvent struct {
	BaseEvent
	Entity   string   `json:"entity"`
	EntityID int64    `json:"entity_id"`
	ActorID  int64    `json:"actor_id"`
	Fields   []string `json:"fields,omitempty"`
}

func NewEntityEvent(eventType, entity string, entityID, actorID int64, fields []string) *EntityEvent {
	sorted := slices.Clone(fields)
	slices.Sort(sorted)
	return &EntityEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entity":    entity,
				"entity_id": entityID,
				"actor_id":  actorID,
				"fields":    sorted,
			},
		},
		Entity:   entity,
		EntityID: entityID,
		ActorID:  actorID,
		Fields:   sorted,
	}
}

// FieldNames returns the keys of a change set.
func FieldNames[V any](changes map[string]V) []string {
	names := make([]string, 0, len(changes))
	for k := range changes {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// AuditHandler writes one audit record per entity event.
func AuditHandler(logger *slog.Logger) Handler {
	return func(_ context.Context, event Event) error {
		attrs := []any{"event_type", event.EventType(), "event_id", event.EventID(), "occurred_at", event.OccurredAt()}
		if e, ok := event.(*EntityEvent); ok {
			attrs = append(attrs, "entity", e.Entity, "entity_id", e.EntityID, "actor_id", e.ActorID, "fields", e.Fields)
		}
		logger.Info("audit", attrs...)
		return nil
	}
}
