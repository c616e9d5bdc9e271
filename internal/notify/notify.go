// Package notify carries user-facing game notifications from the engine to whatever view is listening.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/punsta/internal/logger"
)

// Variant controls how a view renders a notification
type Variant string

// Notification variants
const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a single titled message emitted by the engine
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Variant   Variant   `json:"variant"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier receives notifications from engine components
type Notifier interface {
	Notify(title, message string, variant Variant)
}

// Nop discards every notification
type Nop struct{}

// Notify does nothing
func (Nop) Notify(string, string, Variant) {}

const defaultRecentLimit = 50

// Feed keeps the most recent notifications and fans new ones out to subscribers.
// Slow subscribers drop notifications rather than block the engine.
type Feed struct {
	mu     sync.RWMutex
	recent []Notification
	limit  int
	subs   map[uint64]chan Notification
	nextID uint64
	closed bool
	now    func() time.Time
}

// NewFeed creates a feed retaining up to limit recent notifications
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return &Feed{
		limit: limit,
		subs:  make(map[uint64]chan Notification),
		now:   time.Now,
	}
}

// Notify records the notification and delivers it to every subscriber
func (f *Feed) Notify(title, message string, variant Variant) {
	if variant == "" {
		variant = VariantDefault
	}
	n := Notification{
		ID:        uuid.New().String(),
		Title:     title,
		Message:   message,
		Variant:   variant,
		CreatedAt: f.now().UTC(),
	}

	logger.Log.Debug().
		Str("notification_id", n.ID).
		Str("title", title).
		Str("variant", string(variant)).
		Msg("Notification emitted")

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}

	f.recent = append(f.recent, n)
	if len(f.recent) > f.limit {
		f.recent = append(f.recent[:0:0], f.recent[len(f.recent)-f.limit:]...)
	}

	for id, ch := range f.subs {
		select {
		case ch <- n:
		default:
			logger.Log.Warn().
				Uint64("subscriber_id", id).
				Str("notification_id", n.ID).
				Msg("Subscriber buffer full, dropping notification")
		}
	}
}

// Recent returns the retained notifications, oldest first
func (f *Feed) Recent() []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Notification, len(f.recent))
	copy(out, f.recent)
	return out
}

// Subscribe returns a channel receiving every future notification and a function to
// unsubscribe. The channel is closed on unsubscribe or when the feed closes.
func (f *Feed) Subscribe(buffer int) (<-chan Notification, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Notification, buffer)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	f.nextID++
	id := f.nextID
	f.subs[id] = ch
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if sub, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(sub)
			}
		})
	}
}

// Close disconnects every subscriber; later notifications are dropped
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for id, ch := range f.subs {
		delete(f.subs, id)
		close(ch)
	}
}
