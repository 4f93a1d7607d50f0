package notice

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the most recent notices in process, each visible for ttl
type MemoryStore struct {
	mu       sync.Mutex
	items    []Notice
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a bounded store. A zero ttl keeps notices until evicted by capacity.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = 50
	}
	return &MemoryStore{capacity: capacity, ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Notify(_ context.Context, n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, n)
	if over := len(s.items) - s.capacity; over > 0 {
		s.items = append([]Notice(nil), s.items[over:]...)
	}
}

// Recent returns unexpired notices, newest first
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]Notice, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		n := s.items[i]
		if s.ttl > 0 && now.Sub(n.CreatedAt) > s.ttl {
			continue
		}
		out = append(out, n)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
