package sse

import (
	"sync"
)

// Event is one server-sent event.
type Event struct {
	Name string
	Data any
}

type subscriber struct {
	ch chan Event
}

// Hub fans events out to subscribers by topic. A subscriber may listen on
// several topics and receives each published event at most once.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[*subscriber]struct{}
	buffer int
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*subscriber]struct{}),
		buffer: 16,
	}
}

// Subscribe registers a subscriber on topics and returns its event channel
// and a cleanup function that must be called once.
func (h *Hub) Subscribe(topics ...string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{ch: make(chan Event, h.buffer)}
	for _, topic := range topics {
		if h.topics[topic] == nil {
			h.topics[topic] = make(map[*subscriber]struct{})
		}
		h.topics[topic][sub] = struct{}{}
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for _, topic := range topics {
				delete(h.topics[topic], sub)
				if len(h.topics[topic]) == 0 {
					delete(h.topics, topic)
				}
			}
			close(sub.ch)
		})
	}
	return sub.ch, cleanup
}

// Publish sends event to every subscriber of any of topics. Slow
// subscribers with a full buffer miss the event.
func (h *Hub) Publish(event Event, topics ...string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[*subscriber]struct{})
	delivered := 0
	for _, topic := range topics {
		for sub := range h.topics[topic] {
			if _, ok := seen[sub]; ok {
				continue
			}
			seen[sub] = struct{}{}
			select {
			case sub.ch <- event:
				delivered++
			default:
			}
		}
	}
	return delivered
}

// SubscriberCount returns the number of active subscribers for a topic
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// TotalSubscribers returns the number of distinct active subscribers.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[*subscriber]struct{})
	for _, subs := range h.topics {
		for sub := range subs {
			seen[sub] = struct{}{}
		}
	}
	return len(seen)
}

// UserTopic is the topic for events addressed to one user.
func UserTopic(userID string) string {
	return "user:" + userID
}

// RoleTopic is the topic for events addressed to everyone holding role.
func RoleTopic(role string) string {
	return "role:" + role
}
