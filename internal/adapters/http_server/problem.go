package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"travel_catalog/internal/domain"
)

// Problem codes carried in the "code" member.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeBadRequest = "BAD_REQUEST"
	CodeInternal   = "INTERNAL"
)

// Problem is an RFC 7807 body extended with a machine code and field errors.
type Problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Code   string              `json:"code"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

func writeProblem(w http.ResponseWriter, p Problem) {
	if p.Type == "" {
		p.Type = "about:blank"
	}
	if p.Title == "" {
		p.Title = http.StatusText(p.Status)
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func badRequest(w http.ResponseWriter, detail string) {
	writeProblem(w, Problem{Status: http.StatusBadRequest, Code: CodeBadRequest, Detail: detail})
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	var cerr *domain.ConflictError
	switch {
	case errors.As(err, &verr):
		writeProblem(w, Problem{Status: http.StatusBadRequest, Code: CodeValidation, Detail: "validation failed", Errors: verr.Fields})
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, Problem{Status: http.StatusNotFound, Code: CodeNotFound, Detail: "resource not found"})
	case errors.As(err, &cerr):
		writeProblem(w, Problem{Status: http.StatusConflict, Code: CodeConflict, Detail: cerr.Reason})
	case errors.Is(err, domain.ErrConflict):
		writeProblem(w, Problem{Status: http.StatusConflict, Code: CodeConflict, Detail: err.Error()})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("method", r.Method).Msg("request failed")
		writeProblem(w, Problem{Status: http.StatusInternalServerError, Code: CodeInternal, Detail: "internal error"})
	}
}
