package cascade

import (
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// CloudEvent is an alias for the CloudEvents Event type for convenience.
type CloudEvent = cloudevents.Event

// Engine lifecycle event types emitted to registered observers.
const (
	EventTypeEventCreated    = "com.cascade.engine.event.created"
	EventTypeEventRemoved    = "com.cascade.engine.event.removed"
	EventTypeStateChanged    = "com.cascade.engine.state.changed"
	EventTypeHandlerAttached = "com.cascade.engine.handler.attached"
	EventTypeHandlerRemoved  = "com.cascade.engine.handler.removed"
)

// EngineSource is the CloudEvents source attribute for engine-emitted
// lifecycle events.
const EngineSource = "cascade://engine"

// NewCloudEvent creates a properly formed CloudEvent for the given type and
// source with a JSON-encoded data payload.
func NewCloudEvent(eventType, source string, data any) CloudEvent {
	event := cloudevents.NewEvent()
	event.SetID(uuid.New().String())
	event.SetSource(source)
	event.SetType(eventType)
	event.SetTime(time.Now())
	event.SetSpecVersion(cloudevents.VersionV1)
	if data != nil {
		_ = event.SetData(cloudevents.ApplicationJSON, data)
	}
	return event
}
