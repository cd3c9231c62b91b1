package webserver

import (
	"net/url"
	"testing"
)

func TestParseHotel(t *testing.T) {
	f := &form{v: url.Values{
		"id": {"7"}, "name": {"  Marais "}, "destinationId": {"3"}, "address": {"3 rue"},
		"stars": {"4"}, "pricePerNight": {"120.5"}, "rating": {""},
	}}
	h := parseHotel(f)
	if f.bad != nil {
		t.Fatalf("unexpected error: %v", f.bad)
	}
	if h.ID != 7 || h.Name != "Marais" || *h.DestinationID != 3 || *h.Stars != 4 || *h.PricePerNight != 120.5 || h.Rating != nil {
		t.Fatalf("hotel = %+v", h)
	}
}

func TestParse_EmptyIDMeansCreate(t *testing.T) {
	f := &form{v: url.Values{"id": {""}, "name": {"Paris"}}}
	if d := parseDestination(f); d.ID != 0 || f.bad != nil {
		t.Fatalf("destination = %+v err %v", d, f.bad)
	}
}

func TestParse_FirstErrorWins(t *testing.T) {
	f := &form{v: url.Values{"latitude": {"north"}, "popularityScore": {"x"}}}
	parseDestination(f)
	if f.bad == nil || f.bad.Error() != "latitude must be a number" {
		t.Fatalf("err = %v", f.bad)
	}
}

func TestParseUser_Checkbox(t *testing.T) {
	for in, want := range map[string]bool{"on": true, "true": true, "false": false, "0": false} {
		f := &form{v: url.Values{"enabled": {in}, "password": {" keep spaces "}}}
		u := parseUser(f)
		if u.Enabled == nil || *u.Enabled != want || u.Password != " keep spaces " {
			t.Fatalf("%q: user = %+v", in, u)
		}
	}
	f := &form{v: url.Values{}}
	if u := parseUser(f); u.Enabled == nil || *u.Enabled {
		t.Fatalf("unchecked box must read as false, got %v", u.Enabled)
	}
	f = &form{v: url.Values{"enabled": {"maybe"}}}
	parseUser(f)
	if f.bad == nil {
		t.Fatal("want error for bad bool")
	}
}
