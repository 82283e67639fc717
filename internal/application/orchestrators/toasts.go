package orchestrators

import (
	"sync"
	"time"

	"ateliers/internal/domain/toast"
)

// Notifier is the notification sink: an in-memory list of toasts in
// insertion order. Each toast self-removes after toast.TTL through a timer
// handle that is cancelled on manual dismissal, so no callback ever fires
// against an already-removed toast.
type Notifier struct {
	mu     sync.Mutex
	nextID int64
	toasts []toast.Toast
	timers map[int64]*time.Timer
	ttl    time.Duration
}

// NewNotifier creates an empty sink with the standard auto-dismiss delay.
func NewNotifier() *Notifier {
	return &Notifier{
		timers: make(map[int64]*time.Timer),
		ttl:    toast.TTL,
	}
}

// NewNotifierWithTTL creates an empty sink with a custom delay (tests).
func NewNotifierWithTTL(ttl time.Duration) *Notifier {
	n := NewNotifier()
	n.ttl = ttl
	return n
}

// Notify appends a toast and schedules its auto-removal.
// POST: the returned id is strictly greater than all previous ids from
// this sink
func (n *Notifier) Notify(severity, message string) toast.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	t := toast.Toast{
		ID:        n.nextID,
		Severity:  severity,
		Message:   message,
		CreatedAt: time.Now(),
	}
	n.toasts = append(n.toasts, t)
	id := t.ID
	n.timers[id] = time.AfterFunc(n.ttl, func() {
		n.Dismiss(id)
	})
	return t
}

// Success is shorthand for a success toast.
func (n *Notifier) Success(message string) toast.Toast {
	return n.Notify(toast.SeveritySuccess, message)
}

// Warn is shorthand for a warning toast.
func (n *Notifier) Warn(message string) toast.Toast {
	return n.Notify(toast.SeverityWarning, message)
}

// Error is shorthand for an error toast.
func (n *Notifier) Error(message string) toast.Toast {
	return n.Notify(toast.SeverityError, message)
}

// Dismiss removes a toast by id and cancels its pending timer. Dismissing
// an unknown id is a no-op.
func (n *Notifier) Dismiss(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if timer, ok := n.timers[id]; ok {
		timer.Stop()
		delete(n.timers, id)
	}
	for i, t := range n.toasts {
		if t.ID == id {
			n.toasts = append(n.toasts[:i], n.toasts[i+1:]...)
			break
		}
	}
}

// Active returns the live toasts in insertion order.
func (n *Notifier) Active() []toast.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]toast.Toast, len(n.toasts))
	copy(out, n.toasts)
	return out
}
