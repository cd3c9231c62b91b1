package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"travel_catalog/internal/app"
	"travel_catalog/internal/domain"
)

type Handlers struct{ C *app.CatalogService }

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, Problem{Status: http.StatusNotFound, Code: CodeNotFound, Detail: "no route for " + r.URL.Path})
	})
	s.mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, Problem{Status: http.StatusMethodNotAllowed, Code: CodeBadRequest, Detail: r.Method + " not allowed"})
	})
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api", func(r chi.Router) {
		r.Route("/destinations", func(r chi.Router) {
			r.Get("/", h.listDestinations)
			mountItem(r, item[domain.Destination]{
				get: h.C.GetDestination, create: h.C.CreateDestination,
				update: h.C.UpdateDestination, remove: h.C.DeleteDestination,
			})
		})
		r.Route("/hotels", func(r chi.Router) {
			r.Get("/", h.listHotels)
			mountItem(r, item[domain.Hotel]{
				get: h.C.GetHotel, create: h.C.CreateHotel,
				update: h.C.UpdateHotel, remove: h.C.DeleteHotel,
			})
		})
		r.Route("/activities", func(r chi.Router) {
			r.Get("/", h.listActivities)
			mountItem(r, item[domain.Activity]{
				get: h.C.GetActivity, create: h.C.CreateActivity,
				update: h.C.UpdateActivity, remove: h.C.DeleteActivity,
			})
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			mountItem(r, item[domain.User]{
				get: h.C.GetUser, create: h.C.CreateUser,
				update: h.C.UpdateUser, remove: h.C.DeleteUser,
				view: func(u domain.User) any { return u.Public() },
			})
		})
	})
}

// item binds the per-id operations of one resource.
type item[T any] struct {
	get    func(context.Context, int64) (T, error)
	create func(context.Context, T) (T, error)
	update func(context.Context, int64, T) (T, error)
	remove func(context.Context, int64) error
	view   func(T) any // optional response projection
}

func (it item[T]) out(v T) any {
	if it.view != nil {
		return it.view(v)
	}
	return v
}

func mountItem[T any](r chi.Router, it item[T]) {
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var in T
		if !decodeJSON(w, r, &in) {
			return
		}
		created, err := it.create(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, it.out(created))
	})
	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		v, err := it.get(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, it.out(v))
	})
	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var in T
		if !decodeJSON(w, r, &in) {
			return
		}
		updated, err := it.update(r.Context(), id, in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, it.out(updated))
	})
	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		if err := it.remove(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func (h *Handlers) listDestinations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.C.ListDestinations(r.Context(), domain.DestinationFilter{
		Country:  optString(q.Get("country")),
		Category: optString(q.Get("category")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	dest, ok := queryID(w, r, "destinationId")
	if !ok {
		return
	}
	f := domain.HotelFilter{DestinationID: dest}
	if f.MinStars, ok = queryInt(w, r, "minStars"); !ok {
		return
	}
	if f.MinRating, ok = queryFloat(w, r, "minRating"); !ok {
		return
	}
	out, err := h.C.ListHotels(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) listActivities(w http.ResponseWriter, r *http.Request) {
	dest, ok := queryID(w, r, "destinationId")
	if !ok {
		return
	}
	out, err := h.C.ListActivities(r.Context(), domain.ActivityFilter{
		DestinationID: dest,
		Type:          optString(r.URL.Query().Get("type")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (h *Handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.C.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	writeJSON(w, r, http.StatusOK, out)
}

/********** helpers **********/

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// queryID parses an optional integer filter; absent yields nil.
func queryID(w http.ResponseWriter, r *http.Request, name string) (*int64, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(w, name+" must be an integer")
		return nil, false
	}
	return &id, true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		badRequest(w, name+" must be an integer")
		return nil, false
	}
	return &n, true
}

func queryFloat(w http.ResponseWriter, r *http.Request, name string) (*float64, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		badRequest(w, name+" must be a number")
		return nil, false
	}
	return &n, true
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
	switch {
	case errors.Is(err, io.EOF):
		badRequest(w, "request body is empty")
		return false
	case err != nil:
		badRequest(w, "malformed JSON: "+err.Error())
		return false
	}
	return true
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body, nil
}

// writeJSON writes v; 200 responses carry a weak ETag, and reads (GET/HEAD)
// honour If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body, err := calcETagAndBody(v)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if status == http.StatusOK {
		w.Header().Set("ETag", etag)
	}
	if status == http.StatusOK && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		// If client already has this version, short-circuit.
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}
