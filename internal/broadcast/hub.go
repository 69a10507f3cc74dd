package broadcast

import (
	"context"
	"sync"
	"time"

	"ssf-backend/internal/domain"
)

// Hub connects contexts living in the same process.
type Hub struct {
	mu        sync.RWMutex
	endpoints map[*Endpoint]struct{}
}

func NewHub() *Hub {
	return &Hub{endpoints: make(map[*Endpoint]struct{})}
}

// Join attaches a new endpoint for the context named origin.
func (h *Hub) Join(origin string) *Endpoint {
	ep := &Endpoint{hub: h, origin: origin, handlers: make(map[int]Handler)}
	h.mu.Lock()
	h.endpoints[ep] = struct{}{}
	h.mu.Unlock()
	return ep
}

func (h *Hub) deliver(m Message) {
	h.mu.RLock()
	targets := make([]*Endpoint, 0, len(h.endpoints))
	for ep := range h.endpoints {
		targets = append(targets, ep)
	}
	h.mu.RUnlock()
	for _, ep := range targets {
		ep.receive(m)
	}
}

// Endpoint is a context's attachment to a Hub.
type Endpoint struct {
	hub    *Hub
	origin string

	mu       sync.RWMutex
	handlers map[int]Handler
	nextID   int
	closed   bool
}

func (e *Endpoint) Publish(_ context.Context, key domain.CollectionKey) error {
	e.mu.RLock()
	closed := e.closed
	e.mu.RUnlock()
	if closed {
		return nil
	}
	e.hub.deliver(NewMessage(key, e.origin, time.Now()))
	return nil
}

func (e *Endpoint) Subscribe(h Handler) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.handlers[id] = h
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.handlers, id)
		e.mu.Unlock()
	}
}

func (e *Endpoint) Close() error {
	e.hub.mu.Lock()
	delete(e.hub.endpoints, e)
	e.hub.mu.Unlock()
	e.mu.Lock()
	e.closed = true
	e.handlers = make(map[int]Handler)
	e.mu.Unlock()
	return nil
}

func (e *Endpoint) receive(m Message) {
	if !accept(m, e.origin) {
		return
	}
	e.mu.RLock()
	handlers := make([]Handler, 0, len(e.handlers))
	for _, h := range e.handlers {
		handlers = append(handlers, h)
	}
	e.mu.RUnlock()
	for _, h := range handlers {
		h(m.Key)
	}
}
