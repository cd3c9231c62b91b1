package catalogapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travel_catalog/internal/adapters/catalogapi"
	httpserver "travel_catalog/internal/adapters/http_server"
	"travel_catalog/internal/app"
	"travel_catalog/internal/domain"
	"travel_catalog/internal/storage/memory"
)

// newLiveAPI runs the real CRUD router over an in-memory store.
func newLiveAPI(t *testing.T) *catalogapi.Client {
	t.Helper()
	srv := httpserver.New(httpserver.Options{})
	srv.MountHandlers(&httpserver.Handlers{C: app.NewCatalogService(memory.New())})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return catalogapi.New(ts.URL+"/api", 2*time.Second)
}

func TestClient_RoundTripAgainstAPI(t *testing.T) {
	c := newLiveAPI(t)
	ctx := context.Background()

	d, err := c.CreateDestination(ctx, domain.Destination{Name: "Lisbon", Country: "Portugal", City: "Lisbon", Category: "culture"})
	if err != nil {
		t.Fatalf("CreateDestination: %v", err)
	}
	if d.ID == 0 {
		t.Fatal("id not assigned")
	}

	stars := 4
	if _, err := c.CreateHotel(ctx, domain.Hotel{Name: "Alfama", Address: "Rua 1", DestinationID: &d.ID, Stars: &stars}); err != nil {
		t.Fatalf("CreateHotel: %v", err)
	}
	hs, err := c.ListHotels(ctx, domain.HotelFilter{DestinationID: &d.ID})
	if err != nil || len(hs) != 1 {
		t.Fatalf("ListHotels = %+v, %v", hs, err)
	}

	five, four := 5, 4.0
	if hs, err := c.ListHotels(ctx, domain.HotelFilter{MinStars: &five}); err != nil || len(hs) != 0 {
		t.Fatalf("ListHotels minStars=5 = %+v, %v", hs, err)
	}
	if hs, err := c.ListHotels(ctx, domain.HotelFilter{MinStars: &stars, MinRating: nil}); err != nil || len(hs) != 1 {
		t.Fatalf("ListHotels minStars=4 = %+v, %v", hs, err)
	}
	if hs, err := c.ListHotels(ctx, domain.HotelFilter{MinRating: &four}); err != nil || len(hs) != 0 {
		t.Fatalf("unrated hotel matched minRating: %+v, %v", hs, err)
	}

	cat := "culture"
	ds, err := c.ListDestinations(ctx, domain.DestinationFilter{Category: &cat})
	if err != nil || len(ds) != 1 || ds[0].Name != "Lisbon" {
		t.Fatalf("ListDestinations = %+v, %v", ds, err)
	}

	d.Description = "Seven hills"
	got, err := c.UpdateDestination(ctx, d.ID, d)
	if err != nil || got.Description != "Seven hills" {
		t.Fatalf("UpdateDestination = %+v, %v", got, err)
	}

	if err := c.DeleteDestination(ctx, d.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("delete with dependents: want ErrConflict, got %v", err)
	}
	if _, err := c.GetHotel(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestClient_ValidationIsRejected(t *testing.T) {
	c := newLiveAPI(t)
	stars := 6
	_, err := c.CreateHotel(context.Background(), domain.Hotel{Name: "H", Address: "A", Stars: &stars})
	var rej *catalogapi.RejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("want RejectedError, got %T %v", err, err)
	}
	if rej.Code != httpserver.CodeValidation || len(rej.Fields) != 1 || rej.Fields[0].Field != "stars" {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
}

func TestClient_ServerErrorIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := catalogapi.New(ts.URL, time.Second).ListUsers(context.Background())
	if !errors.Is(err, catalogapi.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestClient_TransportErrorIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close() // nothing listens any more

	_, err := catalogapi.New(url, time.Second).ListDestinations(context.Background(), domain.DestinationFilter{})
	if !errors.Is(err, catalogapi.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestClient_TimeoutIsUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	_, err := catalogapi.New(ts.URL, 20*time.Millisecond).GetUser(context.Background(), 1)
	if !errors.Is(err, catalogapi.ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}
