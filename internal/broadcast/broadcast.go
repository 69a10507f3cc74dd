package broadcast

import (
	"context"
	"time"

	"ssf-backend/internal/domain"
)

// MessageType is the only message type carried on the change channel.
const MessageType = "storage"

// DefaultChannel is the broadcast channel shared by all contexts of a device.
const DefaultChannel = "ssf:channel"

// Message announces that a collection was rewritten. Origin lets receivers on a shared
// channel drop their own messages.
type Message struct {
	Type   string               `json:"type"`
	Key    domain.CollectionKey `json:"key"`
	At     int64                `json:"at"`
	Origin string               `json:"origin,omitempty"`
}

// NewMessage builds a change message for key stamped with at in epoch milliseconds.
func NewMessage(key domain.CollectionKey, origin string, at time.Time) Message {
	return Message{Type: MessageType, Key: key, At: at.UnixMilli(), Origin: origin}
}

// Handler receives the key of a collection another context changed.
type Handler func(domain.CollectionKey)

// Broadcaster is one context's endpoint on the change channel.
type Broadcaster interface {
	// Publish notifies every other live context that key changed.
	Publish(ctx context.Context, key domain.CollectionKey) error
	// Subscribe registers h for changes published by other contexts.
	Subscribe(h Handler) (unsubscribe func())
	Close() error
}

// accept filters messages a receiver must ignore.
func accept(m Message, self string) bool {
	return m.Type == MessageType && m.Key.Valid() && m.Origin != self
}
