package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one transient user-facing message.
type Notification struct {
	ID        string
	Level     Level
	Message   string
	CreatedAt time.Time
}

const (
	defaultKeep = 5
	defaultTTL  = 5 * time.Second
)

// Center is the in-memory queue of banners. It keeps the latest entries,
// expires them after a fixed interval and can fan each one out to a sink for
// immediate rendering.
type Center struct {
	mu    sync.Mutex
	items []Notification

	keep int
	ttl  time.Duration
	now  func() time.Time
	sink func(Notification)
}

func NewCenter(opts ...Option) *Center {
	c := &Center{
		keep: defaultKeep,
		ttl:  defaultTTL,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(*Center)

// WithSink registers a callback invoked synchronously for every pushed
// notification.
func WithSink(sink func(Notification)) Option {
	return func(c *Center) { c.sink = sink }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Center) { c.now = now }
}

func (c *Center) Success(message string) {
	c.push(LevelSuccess, message)
}

func (c *Center) Error(message string) {
	c.push(LevelError, message)
}

func (c *Center) push(level Level, message string) {
	if message == "" {
		return
	}
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: c.now(),
	}

	c.mu.Lock()
	c.items = append(c.items, n)
	if len(c.items) > c.keep {
		c.items = c.items[len(c.items)-c.keep:]
	}
	sink := c.sink
	c.mu.Unlock()

	if sink != nil {
		sink(n)
	}
}

// Active returns the not-yet-expired notifications, pruning the rest.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.ttl)
	alive := c.items[:0]
	for _, n := range c.items {
		if n.CreatedAt.After(cutoff) {
			alive = append(alive, n)
		}
	}
	c.items = alive

	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Dismiss removes one notification by id before its expiry.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}
