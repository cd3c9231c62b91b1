// Package memory is an in-process CatalogStore used for local runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"travel_catalog/internal/domain"
)

type table[T any] struct {
	rows   map[int64]T
	nextID int64
}

func newTable[T any]() *table[T] { return &table[T]{rows: map[int64]T{}} }

func (t *table[T]) sorted(keep func(T) bool) []T {
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if r := t.rows[id]; keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (t *table[T]) get(id int64) (T, error) {
	r, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	return r, nil
}

func (t *table[T]) insert(set func(*T, int64), v T) T {
	t.nextID++
	set(&v, t.nextID)
	t.rows[t.nextID] = v
	return v
}

func (t *table[T]) replace(id int64, v T) (T, error) {
	if _, ok := t.rows[id]; !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	t.rows[id] = v
	return v, nil
}

func (t *table[T]) remove(id int64) error {
	if _, ok := t.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

type Store struct {
	mu           sync.RWMutex
	destinations *table[domain.Destination]
	hotels       *table[domain.Hotel]
	activities   *table[domain.Activity]
	users        *table[domain.User]
}

var _ domain.CatalogStore = (*Store)(nil)

func New() *Store {
	return &Store{
		destinations: newTable[domain.Destination](),
		hotels:       newTable[domain.Hotel](),
		activities:   newTable[domain.Activity](),
		users:        newTable[domain.User](),
	}
}

func eqPtr[T comparable](want *T, got T) bool { return want == nil || *want == got }

func refEq(want *int64, got *int64) bool {
	if want == nil {
		return true
	}
	return got != nil && *got == *want
}

// atLeast mirrors SQL "col >= ?": a nil bound matches, a NULL value does not.
func atLeast[T int | float64](bound, got *T) bool {
	if bound == nil {
		return true
	}
	return got != nil && *got >= *bound
}

/********** destinations **********/

func (s *Store) ListDestinations(_ context.Context, f domain.DestinationFilter) ([]domain.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.destinations.sorted(func(d domain.Destination) bool {
		return eqPtr(f.Country, d.Country) && eqPtr(f.Category, d.Category)
	}), nil
}

func (s *Store) GetDestination(_ context.Context, id int64) (domain.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.destinations.get(id)
}

func (s *Store) CreateDestination(_ context.Context, d domain.Destination) (domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destinations.insert(func(v *domain.Destination, id int64) { v.ID = id }, d), nil
}

func (s *Store) UpdateDestination(_ context.Context, d domain.Destination) (domain.Destination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destinations.replace(d.ID, d)
}

func (s *Store) DeleteDestination(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.hotels.rows {
		if refEq(&id, h.DestinationID) {
			return &domain.ConflictError{Reason: "destination is referenced by hotels"}
		}
	}
	for _, a := range s.activities.rows {
		if refEq(&id, a.DestinationID) {
			return &domain.ConflictError{Reason: "destination is referenced by activities"}
		}
	}
	return s.destinations.remove(id)
}

/********** hotels **********/

func (s *Store) ListHotels(_ context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hotels.sorted(func(h domain.Hotel) bool {
		return refEq(f.DestinationID, h.DestinationID) && atLeast(f.MinStars, h.Stars) && atLeast(f.MinRating, h.Rating)
	}), nil
}

func (s *Store) GetHotel(_ context.Context, id int64) (domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hotels.get(id)
}

func (s *Store) CreateHotel(_ context.Context, h domain.Hotel) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hotels.insert(func(v *domain.Hotel, id int64) { v.ID = id }, h), nil
}

func (s *Store) UpdateHotel(_ context.Context, h domain.Hotel) (domain.Hotel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hotels.replace(h.ID, h)
}

func (s *Store) DeleteHotel(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hotels.remove(id)
}

/********** activities **********/

func (s *Store) ListActivities(_ context.Context, f domain.ActivityFilter) ([]domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activities.sorted(func(a domain.Activity) bool {
		return refEq(f.DestinationID, a.DestinationID) && eqPtr(f.Type, a.Type)
	}), nil
}

func (s *Store) GetActivity(_ context.Context, id int64) (domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activities.get(id)
}

func (s *Store) CreateActivity(_ context.Context, a domain.Activity) (domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activities.insert(func(v *domain.Activity, id int64) { v.ID = id }, a), nil
}

func (s *Store) UpdateActivity(_ context.Context, a domain.Activity) (domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activities.replace(a.ID, a)
}

func (s *Store) DeleteActivity(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activities.remove(id)
}

/********** users **********/

func (s *Store) ListUsers(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.sorted(func(domain.User) bool { return true }), nil
}

func (s *Store) GetUser(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.get(id)
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findUser(func(u domain.User) bool { return username != "" && strings.EqualFold(u.Username, username) })
}

func (s *Store) findUser(match func(domain.User) bool) (domain.User, error) {
	if found := s.users.sorted(match); len(found) > 0 {
		return found[0], nil
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.uniqueUser(u); err != nil {
		return domain.User{}, err
	}
	return s.users.insert(func(v *domain.User, id int64) { v.ID = id }, u), nil
}

func (s *Store) UpdateUser(_ context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.uniqueUser(u); err != nil {
		return domain.User{}, err
	}
	return s.users.replace(u.ID, u)
}

func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.remove(id)
}

// uniqueUser mirrors the unique indexes on users.email and users.username.
func (s *Store) uniqueUser(u domain.User) error {
	for _, other := range s.users.rows {
		if other.ID == u.ID {
			continue
		}
		if strings.EqualFold(other.Email, u.Email) {
			return &domain.ConflictError{Reason: "duplicate email"}
		}
		if u.Username != "" && strings.EqualFold(other.Username, u.Username) {
			return &domain.ConflictError{Reason: "duplicate username"}
		}
	}
	return nil
}
