// Package events publishes listing lifecycle events to a message broker.
package events

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ukydev/rental-market/internal/models"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event is the payload of a listing lifecycle message.
type Event struct {
	ID     string      `json:"id"`
	Kind   models.Kind `json:"kind"`
	Action Action      `json:"action"`
	At     time.Time   `json:"at"`
}

// Publisher sends a JSON encoded value to topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, v any) error
	Close()
}

// Topic joins prefix, kind and action with sep, e.g. rental/car/created.
func Topic(prefix string, kind models.Kind, action Action, sep string) string {
	parts := make([]string, 0, 3)
	if prefix = strings.Trim(prefix, "/."); prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, string(kind), string(action))
	return strings.Join(parts, sep)
}

// Emitter builds listing events and publishes them. Failures are logged
// and never returned.
type Emitter struct {
	publisher Publisher
	prefix    string
	sep       string
	logger    logrus.FieldLogger
	now       func() time.Time
}

func NewEmitter(publisher Publisher, prefix, sep string, logger logrus.FieldLogger) *Emitter {
	if publisher == nil {
		publisher = Nop{}
	}
	if sep == "" {
		sep = "/"
	}
	return &Emitter{publisher: publisher, prefix: prefix, sep: sep, logger: logger, now: time.Now}
}

func (e *Emitter) Emit(ctx context.Context, kind models.Kind, action Action, id string) {
	topic := Topic(e.prefix, kind, action, e.sep)
	ev := Event{ID: id, Kind: kind, Action: action, At: e.now().UTC()}
	if err := e.publisher.Publish(ctx, topic, ev); err != nil {
		e.logger.WithError(err).WithField("topic", topic).Warn("Failed to publish listing event")
	}
}

func (e *Emitter) Close() {
	e.publisher.Close()
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close()                                     {}
