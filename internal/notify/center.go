// Package notify keeps the user-facing toast notifications.
//
// An operation opens a Loading notification with Start and closes it with
// exactly one of Succeed or Fail; later closes of the same ID are ignored.
// One-shot notifications (Info, Error) are terminal from the start.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the visual category of a notification.
type Level int

const (
	Loading Level = iota
	Success
	Info
	Error
)

func (l Level) String() string {
	switch l {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Info:
		return "info"
	case Error:
		return "error"
	}
	return "unknown"
}

// Terminal reports whether the level closes an operation.
func (l Level) Terminal() bool {
	return l != Loading
}

// Notification is one toast.
type Notification struct {
	ID    string
	Level Level
	Text  string
	At    time.Time
}

// DefaultTTL is how long a terminal notification stays visible.
const DefaultTTL = 5 * time.Second

// Center tracks open and recent notifications. Safe for concurrent use.
type Center struct {
	mu      sync.Mutex
	now     func() time.Time
	ttl     time.Duration
	active  map[string]Notification
	order   []string
	history *ring
}

// NewCenter creates a Center keeping history entries for the log view.
func NewCenter(history int) *Center {
	return &Center{
		now:     time.Now,
		ttl:     DefaultTTL,
		active:  make(map[string]Notification),
		history: newRing(history),
	}
}

// SetClock replaces the time source.
func (c *Center) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Start opens a Loading notification and returns its ID.
func (c *Center) Start(text string) string {
	return c.add(Loading, text)
}

// Info posts a one-shot informational notification.
func (c *Center) Info(text string) string {
	return c.add(Info, text)
}

// Error posts a one-shot error notification.
func (c *Center) Error(text string) string {
	return c.add(Error, text)
}

// Succeed closes id with a Success notification.
func (c *Center) Succeed(id, text string) bool {
	return c.close(id, Success, text)
}

// Fail closes id with an Error notification.
func (c *Center) Fail(id, text string) bool {
	return c.close(id, Error, text)
}

func (c *Center) add(level Level, text string) string {
	n := Notification{ID: uuid.NewString(), Level: level, Text: text}

	c.mu.Lock()
	n.At = c.now()
	c.active[n.ID] = n
	c.order = append(c.order, n.ID)
	c.mu.Unlock()

	c.history.push(n)
	return n.ID
}

// close replaces a Loading notification with its terminal form. It reports
// false if id is unknown or already closed.
func (c *Center) close(id string, level Level, text string) bool {
	c.mu.Lock()
	n, ok := c.active[id]
	if !ok || n.Level != Loading {
		c.mu.Unlock()
		return false
	}
	n.Level = level
	n.Text = text
	n.At = c.now()
	c.active[id] = n
	c.mu.Unlock()

	c.history.push(n)
	return true
}

// Visible returns the notifications to draw, oldest first: every open
// Loading notification plus terminal ones younger than the TTL. Expired
// entries are dropped.
func (c *Center) Visible() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	out := make([]Notification, 0, len(c.order))
	kept := c.order[:0]
	for _, id := range c.order {
		n := c.active[id]
		if n.Level.Terminal() && now.Sub(n.At) >= c.ttl {
			delete(c.active, id)
			continue
		}
		kept = append(kept, id)
		out = append(out, n)
	}
	c.order = kept
	return out
}

// Dismiss removes every terminal notification immediately.
func (c *Center) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.order[:0]
	for _, id := range c.order {
		if c.active[id].Level.Terminal() {
			delete(c.active, id)
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
}

// History returns up to n of the most recent events, oldest first. A closed
// operation appears twice: once opened and once closed.
func (c *Center) History(n int) []Notification {
	return c.history.last(n)
}
