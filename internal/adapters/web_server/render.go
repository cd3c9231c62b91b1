// Package webserver serves the browser-facing pages over the CRUD API.
package webserver

import (
	"encoding/json"
	"net/http"

	"travel_catalog/internal/domain"
)

// Page is everything a view needs: its name, the model and the pending
// flash messages. Error carries the ?error= code of a redirect.
type Page struct {
	View    string         `json:"view"`
	Model   any            `json:"model"`
	Flashes []domain.Flash `json:"flashes"`
	Error   string         `json:"error,omitempty"`
}

type Renderer interface {
	Render(w http.ResponseWriter, status int, p Page) error
}

// JSONRenderer writes the page as a JSON document; templates can replace it
// without touching the handlers.
type JSONRenderer struct{}

func (JSONRenderer) Render(w http.ResponseWriter, status int, p Page) error {
	if p.Flashes == nil {
		p.Flashes = []domain.Flash{}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(p)
}
