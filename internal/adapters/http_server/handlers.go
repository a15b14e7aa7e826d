// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"flight_search/internal/app"
	"flight_search/internal/domain"
)

type SessionStore interface {
	Create() *app.Session
	Get(id string) (*app.Session, error)
	Delete(id string)
}

type Handlers struct {
	Locations app.LocationSearcher
	Sessions  SessionStore
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type sessionResponse struct {
	ID   string   `json:"id"`
	View app.View `json:"view"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/locations", h.searchLocations)

	s.mux.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", h.deleteSession)
			r.Post("/search", h.search)
			r.Get("/flights", h.flights)
			r.Put("/filters", h.setFilters)
			r.Delete("/filters", h.resetFilters)
			r.Get("/suggestions", h.suggest)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var ae *domain.AuthError
	var se *domain.SearchError
	switch {
	case errors.Is(err, domain.ErrInvalidCriteria):
		writeProblem(w, http.StatusBadRequest, "Invalid search criteria", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "session not found")
	case errors.Is(err, domain.ErrStaleResponse):
		writeProblem(w, http.StatusConflict, "Superseded", domain.UserMessage(err))
	case errors.As(err, &ae), errors.As(err, &se):
		log.Warn().Err(err).Msg("flight API failure")
		writeProblem(w, http.StatusBadGateway, "Upstream Error", domain.UserMessage(err))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeProblem(w, http.StatusGatewayTimeout, "Timeout", "request cancelled before completion")
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag && status == http.StatusOK {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return false
	}
	return true
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*app.Session, bool) {
	sess, err := h.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (h *Handlers) searchLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.Locations.Search(r.Context(), r.URL.Query().Get("q")))
}

func (h *Handlers) createSession(w http.ResponseWriter, r *http.Request) {
	sess := h.Sessions.Create()
	w.Header().Set("Location", "/v1/sessions/"+sess.ID)
	writeJSON(w, r, http.StatusCreated, sessionResponse{ID: sess.ID, View: sess.View()})
}

func (h *Handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}
	h.Sessions.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var c domain.SearchCriteria
	if !decodeBody(w, r, &c) {
		return
	}
	view, err := sess.Search(r.Context(), c)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (h *Handlers) flights(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	key := app.SortKey(r.URL.Query().Get("sort"))
	if key == "" {
		writeJSON(w, r, http.StatusOK, sess.View())
		return
	}
	if !key.Valid() {
		writeProblem(w, http.StatusBadRequest, "Invalid sort", "sort must be one of price-asc, price-desc, duration-asc, duration-desc, departure-asc, departure-desc")
		return
	}
	writeJSON(w, r, http.StatusOK, sess.SetSort(key))
}

func (h *Handlers) setFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var c domain.FilterCriteria
	if !decodeBody(w, r, &c) {
		return
	}
	if c.PriceMin.GreaterThan(c.PriceMax) || c.MaxDuration < 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid filters", "priceMin must not exceed priceMax and maxDuration must not be negative")
		return
	}
	writeJSON(w, r, http.StatusOK, sess.SetCriteria(c))
}

func (h *Handlers) resetFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, sess.ResetCriteria())
}

func (h *Handlers) suggest(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	locs, err := sess.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, http.StatusOK, locs)
}
