package session

import "sync"

// Subscription delivers store events until closed. The channel is
// buffered and sends never block, so a slow consumer drops events rather
// than stalling a run.
type Subscription struct {
	C <-chan Event

	id    int
	store *Store
	once  sync.Once
}

// Close deregisters the subscription and closes its channel. Safe to call
// more than once.
func (sub *Subscription) Close() {
	sub.once.Do(func() {
		sub.store.mu.Lock()
		defer sub.store.mu.Unlock()

		if ch, ok := sub.store.subscribers[sub.id]; ok {
			delete(sub.store.subscribers, sub.id)
			close(ch)
		}
	})
}

// Subscribe registers a consumer of status and progress events.
func (s *Store) Subscribe() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, 64)
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch

	return &Subscription{C: ch, id: id, store: s}
}

func (s *Store) notifyLocked() {
	event := Event{Status: s.status, Progress: s.progress}
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
