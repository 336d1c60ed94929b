// Package broadcast fans events out to channel subscribers in process. The
// websocket layer subscribes connection pumps here; command handlers publish
// through the ports.Broadcaster interface and never see the connections.
//
// Channel keys follow the load:{id}, convoy:{id}, user:{id}, company:{id}
// and ops:emergency conventions from the ports package.
package broadcast

import (
	"log/slog"
	"sync"

	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/core/ports"
)

// defaultBuffer is the per-subscription event buffer. A subscriber that
// falls this far behind starts losing events rather than blocking
// publishers.
const defaultBuffer = 16

// Subscription is one subscriber's handle on a channel. Events arrive on C;
// Cancel detaches and closes it.
type Subscription struct {
	C chan ports.BroadcastEvent

	channel  string
	registry *Registry
	once     sync.Once
}

// Cancel detaches the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.registry.drop(s.channel, s)
	})
}

// Registry is an in-memory broadcaster. Publishing to a channel with no
// subscribers is a no-op; delivery to slow subscribers is dropped, never
// blocked on.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]map[*Subscription]struct{}
	closed   bool
	logger   *slog.Logger
}

// NewRegistry creates an empty broadcast registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		channels: make(map[string]map[*Subscription]struct{}),
		logger:   logger.With("component", "broadcast_registry"),
	}
}

// Subscribe attaches a new subscriber to a channel key.
func (r *Registry) Subscribe(channel string) *Subscription {
	sub := &Subscription{
		C:        make(chan ports.BroadcastEvent, defaultBuffer),
		channel:  channel,
		registry: r,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		close(sub.C)
		return sub
	}
	if r.channels[channel] == nil {
		r.channels[channel] = make(map[*Subscription]struct{})
	}
	r.channels[channel][sub] = struct{}{}
	return sub
}

// Publish delivers the event to every current subscriber of the channel.
func (r *Registry) Publish(channel string, event ports.BroadcastEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}

	for sub := range r.channels[channel] {
		select {
		case sub.C <- event:
		default:
			r.logger.Warn("subscriber lagging, event dropped", "channel", channel, "key", event.Key)
		}
	}
}

// NotifyUser delivers one event on the user's own channel.
func (r *Registry) NotifyUser(id kernel.UUID, event ports.BroadcastEvent) {
	r.Publish(ports.UserChannel(id), event)
}

// SubscriberCount reports how many subscribers a channel currently has.
func (r *Registry) SubscriberCount(channel string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels[channel])
}

// Close detaches and closes every subscription. Further publishes are
// silently dropped; further subscribes get an already-closed channel.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true

	for channel, subs := range r.channels {
		for sub := range subs {
			close(sub.C)
		}
		delete(r.channels, channel)
	}
}

func (r *Registry) drop(channel string, sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	if subs := r.channels[channel]; subs != nil {
		if _, ok := subs[sub]; ok {
			delete(subs, sub)
			close(sub.C)
		}
		if len(subs) == 0 {
			delete(r.channels, channel)
		}
	}
}
