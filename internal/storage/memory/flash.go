package memory

import (
	"context"
	"sync"
	"time"

	"travel_catalog/internal/domain"
)

type flashEntry struct {
	items   []domain.Flash
	expires time.Time
}

// FlashStore is the in-process domain.FlashStore used when Redis is not configured.
type FlashStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	byID map[string]*flashEntry
}

var _ domain.FlashStore = (*FlashStore)(nil)

func NewFlashStore(ttl time.Duration) *FlashStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FlashStore{ttl: ttl, now: time.Now, byID: map[string]*flashEntry{}}
}

func (s *FlashStore) Push(_ context.Context, session string, f domain.Flash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	e, ok := s.byID[session]
	if !ok {
		e = &flashEntry{}
		s.byID[session] = e
	}
	e.items = append(e.items, f)
	e.expires = s.now().Add(s.ttl)
	return nil
}

func (s *FlashStore) Pop(_ context.Context, session string) ([]domain.Flash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[session]
	delete(s.byID, session)
	if !ok || s.now().After(e.expires) {
		return []domain.Flash{}, nil
	}
	return e.items, nil
}

// sweep drops expired sessions; caller holds mu.
func (s *FlashStore) sweep() {
	now := s.now()
	for id, e := range s.byID {
		if now.After(e.expires) {
			delete(s.byID, id)
		}
	}
}
