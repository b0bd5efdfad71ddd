package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/avolkoff/panelbridge/internal/domain/panel"
)

// Event is one notification produced for a detected status transition.
// It has no identity beyond its payload; the ID exists only so log lines and
// mirrored MQTT messages can be correlated.
type Event struct {
	// ID correlates log and mirror records for one dispatch.
	ID string `json:"id"`
	// Topic is the panel topic that transitioned, empty for the synthetic
	// startup event.
	Topic panel.Topic `json:"topic,omitempty"`
	// Message is the human-readable notification text.
	Message string `json:"message"`
	// At is when the transition was detected.
	At time.Time `json:"at"`
}

// NewEvent builds the event for a topic transition.
func NewEvent(topic panel.Topic, newValue bool) Event {
	return Event{
		ID:      uuid.NewString(),
		Topic:   topic,
		Message: Format(topic, newValue),
		At:      time.Now().UTC(),
	}
}

// NewStartupEvent builds the synthetic event announcing bridge startup.
func NewStartupEvent() Event {
	return Event{
		ID:      uuid.NewString(),
		Message: StartupMessage,
		At:      time.Now().UTC(),
	}
}

// Payload returns the message escaped for the JSON push envelope.
func (e Event) Payload() string {
	return Escape(e.Message)
}
