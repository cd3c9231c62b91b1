package webserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"travel_catalog/internal/app"
	"travel_catalog/internal/domain"
)

type Handlers struct {
	Pages   *app.PageService
	Flashes domain.FlashStore

	// Render defaults to JSONRenderer.
	Render Renderer
}

// resource binds the list/form/save/delete pages of one entity.
type resource[T any] struct {
	name    string
	list    func(context.Context) app.ListPage[T]
	newForm func(context.Context) app.FormPage[T]
	edit    func(context.Context, int64) (app.FormPage[T], error)
	parse   func(*form) T
	save    func(context.Context, T) domain.Flash
	remove  func(context.Context, int64) domain.Flash
}

func Mount(r chi.Router, h *Handlers) {
	if h.Render == nil {
		h.Render = JSONRenderer{}
	}
	p := h.Pages

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, "index", p.Home(r.Context()))
	})

	r.Route("/destinations", func(r chi.Router) {
		mountResource(r, h, resource[domain.Destination]{
			name:    "destinations",
			list:    p.Destinations,
			newForm: func(context.Context) app.FormPage[domain.Destination] { return p.NewDestinationForm() },
			edit:    p.EditDestinationForm,
			parse:   parseDestination,
			save:    p.SaveDestination,
			remove:  p.DeleteDestination,
		})
		r.Get("/{id}", h.destinationDetail)
		r.Get("/{id}/recommend", h.recommend)
		r.Get("/{id}/seasonal", h.seasonal)
	})
	r.Route("/hotels", func(r chi.Router) {
		mountResource(r, h, resource[domain.Hotel]{
			name: "hotels", list: p.Hotels, newForm: p.NewHotelForm, edit: p.EditHotelForm,
			parse: parseHotel, save: p.SaveHotel, remove: p.DeleteHotel,
		})
	})
	r.Route("/activities", func(r chi.Router) {
		mountResource(r, h, resource[domain.Activity]{
			name: "activities", list: p.Activities, newForm: p.NewActivityForm, edit: p.EditActivityForm,
			parse: parseActivity, save: p.SaveActivity, remove: p.DeleteActivity,
		})
	})
	r.Route("/users", func(r chi.Router) {
		mountResource(r, h, resource[domain.User]{
			name:    "users",
			list:    p.Users,
			newForm: func(context.Context) app.FormPage[domain.User] { return p.NewUserForm() },
			edit:    p.EditUserForm,
			parse:   parseUser,
			save:    p.SaveUser,
			remove:  p.DeleteUser,
		})
	})
}

func mountResource[T any](r chi.Router, h *Handlers, res resource[T]) {
	listing := "/" + res.name

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, res.name+"/list", res.list(r.Context()))
	})
	r.Get("/new", func(w http.ResponseWriter, r *http.Request) {
		h.render(w, r, res.name+"/form", res.newForm(r.Context()))
	})
	r.Get("/edit/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			h.missing(w, r, listing, domain.ErrNotFound)
			return
		}
		page, err := res.edit(r.Context(), id)
		if err != nil {
			h.missing(w, r, listing, err)
			return
		}
		h.render(w, r, res.name+"/form", page)
	})
	r.Post("/save", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.redirect(w, r, listing, saveFailed(err))
			return
		}
		f := &form{v: r.PostForm}
		v := res.parse(f)
		if f.bad != nil {
			h.redirect(w, r, listing, saveFailed(f.bad))
			return
		}
		h.redirect(w, r, listing, res.save(r.Context(), v))
	})
	del := func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			h.missing(w, r, listing, domain.ErrNotFound)
			return
		}
		h.redirect(w, r, listing, res.remove(r.Context(), id))
	}
	r.Get("/delete/{id}", del)
	r.Post("/delete/{id}", del)
}

func saveFailed(err error) domain.Flash {
	return domain.Flash{Kind: domain.FlashError, Message: "Error while saving: " + err.Error()}
}

func (h *Handlers) destinationDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.missing(w, r, "/destinations", domain.ErrNotFound)
		return
	}
	page, err := h.Pages.DestinationDetail(r.Context(), id)
	if err != nil {
		h.missing(w, r, "/destinations", err)
		return
	}
	h.render(w, r, "destinations/view", page)
}

func (h *Handlers) recommend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.missing(w, r, "/destinations", domain.ErrNotFound)
		return
	}
	page, err := h.Pages.Recommend(r.Context(), id, r.URL.Query().Get("preferences"))
	if err != nil {
		h.missing(w, r, "/destinations", err)
		return
	}
	h.render(w, r, "destinations/recommend", page)
}

func (h *Handlers) seasonal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.missing(w, r, "/destinations", domain.ErrNotFound)
		return
	}
	page, err := h.Pages.SeasonalAdvice(r.Context(), id, r.URL.Query().Get("season"))
	if err != nil {
		h.missing(w, r, "/destinations", err)
		return
	}
	h.render(w, r, "destinations/seasonal", page)
}

// ---- helpers ----

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// render pops the session's flashes into the page. The cookie is set
// before anything is written.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, view string, model any) {
	sid := session(w, r)
	flashes, err := h.Flashes.Pop(r.Context(), sid)
	if err != nil {
		log.Warn().Err(err).Msg("flash pop failed")
	}
	p := Page{View: view, Model: model, Flashes: flashes, Error: r.URL.Query().Get("error")}
	if err := h.Render.Render(w, http.StatusOK, p); err != nil {
		log.Error().Err(err).Str("view", view).Msg("render failed")
	}
}

// redirect stores f for the next page and answers 303 See Other.
func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, to string, f domain.Flash) {
	sid := session(w, r)
	if err := h.Flashes.Push(r.Context(), sid, f); err != nil {
		log.Warn().Err(err).Msg("flash push failed")
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// missing sends the browser back to the listing with an error code.
func (h *Handlers) missing(w http.ResponseWriter, r *http.Request, listing string, err error) {
	code := "NotFound"
	if !errors.Is(err, domain.ErrNotFound) {
		code = "LoadError"
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("page load failed")
	}
	http.Redirect(w, r, listing+"?error="+code, http.StatusFound)
}
