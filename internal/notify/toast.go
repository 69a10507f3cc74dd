package notify

import (
	"context"
	"sync"
	"time"
)

const defaultToastCapacity = 20

// Toasts is the in-context transient sink. Toasts disappear after TTL and only the most
// recent ones are retained.
type Toasts struct {
	TTL      time.Duration
	Capacity int
	Now      func() time.Time

	mu    sync.Mutex
	items []Notification
}

func NewToasts(ttl time.Duration) *Toasts {
	return &Toasts{TTL: ttl, Capacity: defaultToastCapacity, Now: time.Now}
}

func (t *Toasts) Name() string { return "toast" }

func (t *Toasts) Deliver(_ context.Context, n Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, n)
	capacity := t.Capacity
	if capacity <= 0 {
		capacity = defaultToastCapacity
	}
	if len(t.items) > capacity {
		t.items = append([]Notification(nil), t.items[len(t.items)-capacity:]...)
	}
	return nil
}

// Active returns the toasts that have not yet timed out, oldest first.
func (t *Toasts) Active() []Notification {
	now := time.Now()
	if t.Now != nil {
		now = t.Now()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.items[:0]
	for _, n := range t.items {
		if t.TTL <= 0 || now.Sub(n.At) < t.TTL {
			kept = append(kept, n)
		}
	}
	t.items = kept
	return append([]Notification{}, kept...)
}
