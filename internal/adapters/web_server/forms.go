package webserver

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"travel_catalog/internal/domain"
)

// form reads typed values out of an urlencoded body. The first conversion
// failure is kept and reported by err.
type form struct {
	v   url.Values
	bad error
}

func (f *form) str(k string) string { return strings.TrimSpace(f.v.Get(k)) }

func (f *form) fail(k, what string) {
	if f.bad == nil {
		f.bad = fmt.Errorf("%s must be %s", k, what)
	}
}

// id is 0 (create) when the field is missing or blank.
func (f *form) id() int64 {
	s := f.str("id")
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		f.fail("id", "a positive integer")
		return 0
	}
	return n
}

func (f *form) optInt(k string) *int {
	s := f.str(k)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f.fail(k, "an integer")
		return nil
	}
	return &n
}

func (f *form) optID(k string) *int64 {
	s := f.str(k)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f.fail(k, "an integer")
		return nil
	}
	return &n
}

func (f *form) optFloat(k string) *float64 {
	s := f.str(k)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f.fail(k, "a number")
		return nil
	}
	return &n
}

// checkbox reads an HTML checkbox: browsers omit unchecked boxes, so a
// missing field is false. "on" and strconv booleans are accepted.
func (f *form) checkbox(k string) *bool {
	s := strings.ToLower(f.str(k))
	b := s == "on"
	if s == "" {
		return &b
	}
	if !b {
		var err error
		if b, err = strconv.ParseBool(s); err != nil {
			f.fail(k, "true or false")
			return nil
		}
	}
	return &b
}

func parseDestination(f *form) domain.Destination {
	return domain.Destination{
		ID:              f.id(),
		Name:            f.str("name"),
		Country:         f.str("country"),
		City:            f.str("city"),
		Description:     f.str("description"),
		Category:        f.str("category"),
		Latitude:        f.optFloat("latitude"),
		Longitude:       f.optFloat("longitude"),
		PopularityScore: f.optInt("popularityScore"),
		ImageURL:        f.str("imageUrl"),
	}
}

func parseHotel(f *form) domain.Hotel {
	return domain.Hotel{
		ID:            f.id(),
		Name:          f.str("name"),
		DestinationID: f.optID("destinationId"),
		Address:       f.str("address"),
		Stars:         f.optInt("stars"),
		PricePerNight: f.optFloat("pricePerNight"),
		Amenities:     f.str("amenities"),
		Rating:        f.optFloat("rating"),
		ImageURL:      f.str("imageUrl"),
	}
}

func parseActivity(f *form) domain.Activity {
	return domain.Activity{
		ID:            f.id(),
		Name:          f.str("name"),
		DestinationID: f.optID("destinationId"),
		Description:   f.str("description"),
		Type:          f.str("type"),
		Price:         f.optFloat("price"),
		Duration:      f.optInt("duration"),
		Rating:        f.optFloat("rating"),
		ImageURL:      f.str("imageUrl"),
	}
}

func parseUser(f *form) domain.User {
	return domain.User{
		ID:          f.id(),
		FirstName:   f.str("firstName"),
		LastName:    f.str("lastName"),
		Email:       f.str("email"),
		Username:    f.str("username"),
		Password:    f.v.Get("password"), // not trimmed
		Role:        strings.ToUpper(f.str("role")),
		Enabled:     f.checkbox("enabled"),
		Country:     f.str("country"),
		Preferences: f.str("preferences"),
	}
}
