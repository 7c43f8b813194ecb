// Package toast queues short-lived notifications shown on the next page render.
package toast

import (
	"strings"
	"sync"
	"time"
)

// Kind selects the toast palette and icon.
type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// DefaultDismiss is how long a toast stays visible.
const DefaultDismiss = 2500 * time.Millisecond

// ParseKind maps a name to a Kind, falling back to KindInfo.
func ParseKind(name string) Kind {
	switch k := Kind(strings.ToLower(strings.TrimSpace(name))); k {
	case KindError, KindSuccess, KindInfo, KindWarning:
		return k
	default:
		return KindInfo
	}
}

// Class returns the style classes for k.
func (k Kind) Class() string {
	switch k {
	case KindError:
		return "bg-error-light border-error-dark text-error-dark"
	case KindInfo:
		return "bg-primary-light border-primary-dark text-primary-dark"
	case KindSuccess:
		return "bg-success-light border-success-dark text-success-dark"
	case KindWarning:
		return "bg-warning-light border-warning-dark text-warning-dark"
	default:
		return ""
	}
}

// Icon returns the icon name for k.
func (k Kind) Icon() string {
	switch k {
	case KindError:
		return "circle-alert"
	case KindInfo:
		return "info"
	case KindSuccess:
		return "circle-check"
	case KindWarning:
		return "triangle-alert"
	default:
		return ""
	}
}

// Toast is one notification.
type Toast struct {
	Kind    Kind
	Message string
	Created time.Time
	// Expires is when the toast auto-dismisses.
	Expires time.Time
}

// RemainingMs returns the visible time left at now, in milliseconds.
func (t Toast) RemainingMs(now time.Time) int64 {
	left := t.Expires.Sub(now)
	if left < 0 {
		return 0
	}
	return left.Milliseconds()
}

// Queue holds pending toasts for one visitor.
type Queue struct {
	mu      sync.Mutex
	dismiss time.Duration
	items   []Toast
	now     func() time.Time
}

// NewQueue returns a queue whose toasts expire after dismiss.
func NewQueue(dismiss time.Duration) *Queue {
	if dismiss <= 0 {
		dismiss = DefaultDismiss
	}
	return &Queue{dismiss: dismiss, now: time.Now}
}

// Push adds a toast. Empty messages are dropped.
func (q *Queue) Push(kind Kind, msg string) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return
	}
	now := q.now()
	q.mu.Lock()
	q.items = append(q.items, Toast{
		Kind:    ParseKind(string(kind)),
		Message: msg,
		Created: now,
		Expires: now.Add(q.dismiss),
	})
	q.mu.Unlock()
}

// Drain returns toasts still visible at now and empties the queue.
func (q *Queue) Drain(now time.Time) []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []Toast
	for _, t := range q.items {
		if now.Before(t.Expires) {
			out = append(out, t)
		}
	}
	q.items = nil
	return out
}

// Len returns the number of queued toasts.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
