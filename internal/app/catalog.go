package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel_catalog/internal/domain"
)

// CatalogService implements the CRUD rules shared by every transport.
type CatalogService struct {
	store domain.CatalogStore
	now   func() time.Time
}

func NewCatalogService(s domain.CatalogStore) *CatalogService {
	return &CatalogService{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the time source used for createdAt.
func (s *CatalogService) WithClock(now func() time.Time) *CatalogService {
	s.now = now
	return s
}

/********** destinations **********/

func (s *CatalogService) ListDestinations(ctx context.Context, f domain.DestinationFilter) ([]domain.Destination, error) {
	return s.store.ListDestinations(ctx, f)
}

func (s *CatalogService) GetDestination(ctx context.Context, id int64) (domain.Destination, error) {
	return s.store.GetDestination(ctx, id)
}

func (s *CatalogService) CreateDestination(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	d.ID = 0
	if err := Validate(d); err != nil {
		return domain.Destination{}, err
	}
	return s.store.CreateDestination(ctx, d)
}

func (s *CatalogService) UpdateDestination(ctx context.Context, id int64, d domain.Destination) (domain.Destination, error) {
	if _, err := s.store.GetDestination(ctx, id); err != nil {
		return domain.Destination{}, err
	}
	d.ID = id
	if err := Validate(d); err != nil {
		return domain.Destination{}, err
	}
	return s.store.UpdateDestination(ctx, d)
}

// DeleteDestination refuses to orphan hotels or activities.
func (s *CatalogService) DeleteDestination(ctx context.Context, id int64) error {
	if _, err := s.store.GetDestination(ctx, id); err != nil {
		return err
	}
	hotels, err := s.store.ListHotels(ctx, domain.HotelFilter{DestinationID: &id})
	if err != nil {
		return err
	}
	acts, err := s.store.ListActivities(ctx, domain.ActivityFilter{DestinationID: &id})
	if err != nil {
		return err
	}
	if len(hotels) > 0 || len(acts) > 0 {
		return &domain.ConflictError{Reason: fmt.Sprintf(
			"destination %d still has %d hotel(s) and %d activity(ies)", id, len(hotels), len(acts))}
	}
	return s.store.DeleteDestination(ctx, id)
}

/********** hotels **********/

func (s *CatalogService) ListHotels(ctx context.Context, f domain.HotelFilter) ([]domain.Hotel, error) {
	return s.store.ListHotels(ctx, f)
}

func (s *CatalogService) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	return s.store.GetHotel(ctx, id)
}

func (s *CatalogService) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	h.ID = 0
	if err := s.validateHotel(ctx, h); err != nil {
		return domain.Hotel{}, err
	}
	return s.store.CreateHotel(ctx, h)
}

func (s *CatalogService) UpdateHotel(ctx context.Context, id int64, h domain.Hotel) (domain.Hotel, error) {
	if _, err := s.store.GetHotel(ctx, id); err != nil {
		return domain.Hotel{}, err
	}
	h.ID = id
	if err := s.validateHotel(ctx, h); err != nil {
		return domain.Hotel{}, err
	}
	return s.store.UpdateHotel(ctx, h)
}

func (s *CatalogService) DeleteHotel(ctx context.Context, id int64) error {
	return s.store.DeleteHotel(ctx, id)
}

func (s *CatalogService) validateHotel(ctx context.Context, h domain.Hotel) error {
	if err := Validate(h); err != nil {
		return err
	}
	return s.checkDestinationRef(ctx, h.DestinationID)
}

/********** activities **********/

func (s *CatalogService) ListActivities(ctx context.Context, f domain.ActivityFilter) ([]domain.Activity, error) {
	return s.store.ListActivities(ctx, f)
}

func (s *CatalogService) GetActivity(ctx context.Context, id int64) (domain.Activity, error) {
	return s.store.GetActivity(ctx, id)
}

func (s *CatalogService) CreateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	a.ID = 0
	if err := s.validateActivity(ctx, a); err != nil {
		return domain.Activity{}, err
	}
	return s.store.CreateActivity(ctx, a)
}

func (s *CatalogService) UpdateActivity(ctx context.Context, id int64, a domain.Activity) (domain.Activity, error) {
	if _, err := s.store.GetActivity(ctx, id); err != nil {
		return domain.Activity{}, err
	}
	a.ID = id
	if err := s.validateActivity(ctx, a); err != nil {
		return domain.Activity{}, err
	}
	return s.store.UpdateActivity(ctx, a)
}

func (s *CatalogService) DeleteActivity(ctx context.Context, id int64) error {
	return s.store.DeleteActivity(ctx, id)
}

func (s *CatalogService) validateActivity(ctx context.Context, a domain.Activity) error {
	if err := Validate(a); err != nil {
		return err
	}
	return s.checkDestinationRef(ctx, a.DestinationID)
}

func (s *CatalogService) checkDestinationRef(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	if _, err := s.store.GetDestination(ctx, *id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return invalid("destinationId", "exists", fmt.Sprintf("destinationId %d does not exist", *id))
		}
		return err
	}
	return nil
}

/********** users **********/

func (s *CatalogService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *CatalogService) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *CatalogService) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.ID = 0
	applyUserDefaults(&u)
	// DATETIME(6) keeps microseconds; match it so the response equals a later read.
	u.CreatedAt = s.now().Truncate(time.Microsecond)
	if err := Validate(u); err != nil {
		return domain.User{}, err
	}
	if err := s.checkUnique(ctx, u); err != nil {
		return domain.User{}, err
	}
	return s.store.CreateUser(ctx, u)
}

// UpdateUser replaces every mutable field; createdAt is kept, and an empty
// password or an omitted enabled flag keeps the stored value.
func (s *CatalogService) UpdateUser(ctx context.Context, id int64, u domain.User) (domain.User, error) {
	cur, err := s.store.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = id
	u.CreatedAt = cur.CreatedAt
	if u.Password == "" {
		u.Password = cur.Password
	}
	if u.Enabled == nil {
		u.Enabled = cur.Enabled
	}
	applyUserDefaults(&u)
	if err := Validate(u); err != nil {
		return domain.User{}, err
	}
	if err := s.checkUnique(ctx, u); err != nil {
		return domain.User{}, err
	}
	return s.store.UpdateUser(ctx, u)
}

func (s *CatalogService) DeleteUser(ctx context.Context, id int64) error {
	return s.store.DeleteUser(ctx, id)
}

func applyUserDefaults(u *domain.User) {
	u.Email = strings.TrimSpace(u.Email)
	u.Username = strings.TrimSpace(u.Username)
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	if u.Enabled == nil {
		t := true
		u.Enabled = &t
	}
}

// checkUnique reports a conflict when another row already owns the email or
// username. The store's unique indexes still back this up under races.
func (s *CatalogService) checkUnique(ctx context.Context, u domain.User) error {
	other, err := s.store.FindUserByEmail(ctx, u.Email)
	switch {
	case err == nil && other.ID != u.ID:
		return &domain.ConflictError{Reason: fmt.Sprintf("email %q is already registered", u.Email)}
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return err
	}
	if u.Username == "" {
		return nil
	}
	other, err = s.store.FindUserByUsername(ctx, u.Username)
	switch {
	case err == nil && other.ID != u.ID:
		return &domain.ConflictError{Reason: fmt.Sprintf("username %q is already taken", u.Username)}
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return err
	}
	return nil
}
