package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel_catalog/internal/app"
	"travel_catalog/internal/domain"
	"travel_catalog/internal/storage/memory"
)

func newCatalog(t *testing.T) *app.CatalogService {
	t.Helper()
	fixed := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	return app.NewCatalogService(memory.New()).WithClock(func() time.Time { return fixed })
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %T %v", err, err)
	}
	out := map[string]string{}
	for _, f := range verr.Fields {
		out[f.Field] = f.Tag
	}
	return out
}

func TestCreateDestination_ReportsEveryInvalidField(t *testing.T) {
	c := newCatalog(t)
	_, err := c.CreateDestination(context.Background(), domain.Destination{
		Name:      " ",
		Latitude:  ptr(91.0),
		Longitude: ptr(-181.0),
	})
	got := validationFields(t, err)
	for _, f := range []string{"name", "country", "city", "latitude", "longitude"} {
		if _, ok := got[f]; !ok {
			t.Fatalf("missing %s in %v", f, got)
		}
	}
}

func TestCreateThenGetReturnsPayloadWithID(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	in := domain.Destination{ID: 777, Name: "Oslo", Country: "Norway", City: "Oslo", PopularityScore: ptr(10)}
	d, err := c.CreateDestination(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.ID == 777 || d.ID == 0 {
		t.Fatalf("client-supplied id must be ignored, got %d", d.ID)
	}
	got, err := c.GetDestination(ctx, d.ID)
	if err != nil || got.Name != "Oslo" || *got.PopularityScore != 10 {
		t.Fatalf("get: %+v %v", got, err)
	}
}

func TestUpdateUnknownIsNotFoundBeforeValidation(t *testing.T) {
	c := newCatalog(t)
	// payload is invalid too, but the id check wins
	_, err := c.UpdateActivity(context.Background(), 12, domain.Activity{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestHotelStarsAndRatingBounds(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	if _, err := c.CreateHotel(ctx, domain.Hotel{Name: "H", Address: "A", Stars: ptr(6)}); validationFields(t, err)["stars"] != "lte" {
		t.Fatalf("stars=6: %v", err)
	}
	if _, err := c.CreateHotel(ctx, domain.Hotel{Name: "H", Address: "A", Stars: ptr(0)}); validationFields(t, err)["stars"] != "gte" {
		t.Fatalf("stars=0: %v", err)
	}
	if _, err := c.CreateHotel(ctx, domain.Hotel{Name: "H", Address: "A", Rating: ptr(5.1)}); validationFields(t, err)["rating"] != "lte" {
		t.Fatalf("rating=5.1: %v", err)
	}
	if _, err := c.CreateHotel(ctx, domain.Hotel{Name: "H", Address: "A", Stars: ptr(5), Rating: ptr(5.0), PricePerNight: ptr(0.0)}); err != nil {
		t.Fatalf("upper bounds must be accepted: %v", err)
	}
}

func TestActivityDurationAndDestinationRef(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	if _, err := c.CreateActivity(ctx, domain.Activity{Name: "Hike", Duration: ptr(0)}); validationFields(t, err)["duration"] != "gte" {
		t.Fatalf("duration=0: %v", err)
	}
	if _, err := c.CreateActivity(ctx, domain.Activity{Name: "Hike", DestinationID: ptr(int64(3))}); validationFields(t, err)["destinationId"] != "exists" {
		t.Fatalf("dangling destination: %v", err)
	}
}

func TestDeleteDestination_BlockedThenAllowed(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	d, _ := c.CreateDestination(ctx, domain.Destination{Name: "Rome", Country: "Italy", City: "Rome"})
	h, err := c.CreateHotel(ctx, domain.Hotel{Name: "H", Address: "A", DestinationID: &d.ID})
	if err != nil {
		t.Fatalf("hotel: %v", err)
	}

	err = c.DeleteDestination(ctx, d.ID)
	var ce *domain.ConflictError
	if !errors.As(err, &ce) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ConflictError, got %v", err)
	}

	_ = c.DeleteHotel(ctx, h.ID)
	if err := c.DeleteDestination(ctx, d.ID); err != nil {
		t.Fatalf("delete after clearing dependents: %v", err)
	}
	if err := c.DeleteDestination(ctx, d.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestUsers_DefaultsCreatedAtAndPassword(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	u, err := c.CreateUser(ctx, domain.User{
		FirstName: "Ana", LastName: "Lopez", Email: " ana@example.com ", Country: "Spain", Password: "hash-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Role != domain.RoleUser || u.Enabled == nil || !*u.Enabled || u.Email != "ana@example.com" {
		t.Fatalf("defaults: %+v", u)
	}
	created := u.CreatedAt

	u.FirstName = "Anna"
	u.Password = ""
	u.CreatedAt = time.Time{}
	u.Enabled = ptr(false)
	upd, err := c.UpdateUser(ctx, u.ID, u)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !upd.CreatedAt.Equal(created) || upd.Password != "hash-1" || *upd.Enabled {
		t.Fatalf("update semantics: %+v", upd)
	}
}

func TestUsers_OmittedEnabledKeepsStoredValue(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	u, err := c.CreateUser(ctx, domain.User{
		FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com", Country: "Spain", Enabled: ptr(false),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	u.LastName = "Garcia"
	u.Enabled = nil
	upd, err := c.UpdateUser(ctx, u.ID, u)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.Enabled == nil || *upd.Enabled || upd.LastName != "Garcia" {
		t.Fatalf("omitted enabled must not re-enable: %+v", upd)
	}
}

func TestCreateUser_CreatedAtHasMicrosecondPrecision(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 123456789, time.UTC)
	c := app.NewCatalogService(memory.New()).WithClock(func() time.Time { return at })
	u, err := c.CreateUser(context.Background(), domain.User{
		FirstName: "Ana", LastName: "Lopez", Email: "ana@example.com", Country: "Spain",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if want := time.Date(2024, 5, 1, 9, 30, 0, 123456000, time.UTC); !u.CreatedAt.Equal(want) {
		t.Fatalf("createdAt = %v, want %v", u.CreatedAt, want)
	}
}

func TestUsers_EmailAndUsernameUnique(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	base := domain.User{FirstName: "Ana", LastName: "Lopez", Country: "Spain"}

	a := base
	a.Email, a.Username = "a@example.com", "ana"
	if _, err := c.CreateUser(ctx, a); err != nil {
		t.Fatalf("a: %v", err)
	}
	dupEmail := base
	dupEmail.Email = "a@example.com"
	if _, err := c.CreateUser(ctx, dupEmail); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate email: %v", err)
	}
	dupName := base
	dupName.Email, dupName.Username = "b@example.com", "ana"
	if _, err := c.CreateUser(ctx, dupName); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate username: %v", err)
	}
	ok := base
	ok.Email = "c@example.com"
	if _, err := c.CreateUser(ctx, ok); err != nil {
		t.Fatalf("distinct email: %v", err)
	}

	bad := base
	bad.Email, bad.Role, bad.FirstName = "not-an-email", "ROOT", "A"
	got := validationFields(t, func() error { _, err := c.CreateUser(ctx, bad); return err }())
	if got["email"] != "email" || got["role"] != "oneof" || got["firstName"] != "min" {
		t.Fatalf("user validation: %v", got)
	}
}
