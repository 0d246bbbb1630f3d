package db

import (
	"context"

	"github.com/javiermolinar/bnapp/internal/event"
)

// Subscribe delivers the current snapshot and then a fresh snapshot after
// every write until ctx is done or the store is closed. A slow subscriber
// only ever sees the latest snapshot; older undelivered ones are dropped.
func (s *SQLite) Subscribe(ctx context.Context) <-chan *event.Snapshot {
	ch := make(chan *event.Snapshot, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	if snap, err := s.Snapshot(ctx); err == nil {
		// A write racing with registration may already have queued a newer one.
		s.mu.Lock()
		if ch, ok := s.subs[id]; ok {
			select {
			case ch <- snap:
			default:
			}
		}
		s.mu.Unlock()
	}

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		if ch, ok := s.subs[id]; ok {
			close(ch)
			delete(s.subs, id)
		}
	}()

	return ch
}

// publish sends a fresh snapshot to every subscriber.
func (s *SQLite) publish(ctx context.Context) {
	s.mu.Lock()
	n := len(s.subs)
	s.mu.Unlock()
	if n == 0 {
		return
	}

	snap, err := s.Snapshot(context.WithoutCancel(ctx))
	if err != nil {
		return
	}

	s.mu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.deliver(id, snap)
	}
}

// deliver replaces any pending snapshot of subscriber id with snap.
func (s *SQLite) deliver(id int, snap *event.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.subs[id]
	if !ok {
		return
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
