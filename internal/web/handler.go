// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves the map page and the pins JSON API.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/pdiddy/pinmap/internal/pins"
	"github.com/pdiddy/pinmap/internal/yelp"
	"github.com/pdiddy/pinmap/pkg/types"
)

//go:embed templates/map.html
var templateFS embed.FS

// PinFinder looks up pins for a search term. *pins.Finder implements it.
type PinFinder interface {
	Find(ctx context.Context, term, location string) ([]types.Pin, error)
}

// Handler serves the map page and the pins API.
type Handler struct {
	finder          PinFinder
	mapCfg          types.MapConfig
	defaultLocation string
	log             *zap.Logger
	tmpl            *template.Template
}

// New parses the page template and returns a Handler.
func New(finder PinFinder, mapCfg types.MapConfig, defaultLocation string, log *zap.Logger) (*Handler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/map.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		finder:          finder,
		mapCfg:          mapCfg,
		defaultLocation: defaultLocation,
		log:             log,
		tmpl:            tmpl,
	}, nil
}

// Register mounts the page and API routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.HandleMapPage)
	r.Get("/api/pins", h.HandlePinsAPI)
}

// PinsResponse is the body of GET /api/pins. Pins is always present; Error
// and Kind are set only when the lookup failed.
type PinsResponse struct {
	Pins  []types.Pin `json:"pins"`
	Error string      `json:"error,omitempty"`
	Kind  string      `json:"kind,omitempty"`
}

// lookup is the outcome of one request's search.
type lookup struct {
	Term     string
	Location string
	Pins     []types.Pin
	Err      error
}

func (h *Handler) lookup(r *http.Request) lookup {
	q := r.URL.Query()
	l := lookup{
		Term:     strings.TrimSpace(q.Get("search")),
		Location: strings.TrimSpace(q.Get("location")),
	}
	if l.Location == "" {
		l.Location = h.defaultLocation
	}

	l.Pins, l.Err = h.finder.Find(r.Context(), l.Term, l.Location)
	if l.Err != nil {
		h.log.Warn("lookup failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("term", l.Term),
			zap.String("kind", kindOf(l.Err)),
			zap.Error(l.Err),
		)
		l.Pins = []types.Pin{}
	}
	return l
}

// HandlePinsAPI returns the pins for ?search=&location= as JSON.
func (h *Handler) HandlePinsAPI(w http.ResponseWriter, r *http.Request) {
	l := h.lookup(r)

	resp := PinsResponse{Pins: l.Pins}
	status := http.StatusOK
	if l.Err != nil {
		resp.Error = userMessage(l.Err)
		resp.Kind = kindOf(l.Err)
		status = statusFor(l.Err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.log.Error("encoding pins response", zap.Error(err))
	}
}

// pageData feeds templates/map.html.
type pageData struct {
	Term      string
	Location  string
	Searched  bool
	Pins      []types.Pin
	Error     string
	APIKey    string
	CenterLat float64
	CenterLng float64
	Zoom      int
}

// HandleMapPage renders the map with pins for ?search=&location=.
func (h *Handler) HandleMapPage(w http.ResponseWriter, r *http.Request) {
	l := h.lookup(r)

	data := pageData{
		Term:      l.Term,
		Location:  l.Location,
		Searched:  l.Term != "",
		Pins:      l.Pins,
		APIKey:    h.mapCfg.GoogleAPIKey,
		CenterLat: h.mapCfg.CenterLat,
		CenterLng: h.mapCfg.CenterLng,
		Zoom:      h.mapCfg.Zoom,
	}
	status := http.StatusOK
	if l.Err != nil {
		data.Error = userMessage(l.Err)
		status = statusFor(l.Err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.tmpl.Execute(w, data); err != nil {
		h.log.Error("rendering map page", zap.Error(err))
	}
}

func kindOf(err error) string {
	if errors.Is(err, pins.ErrMapping) {
		return "mapping"
	}
	return yelp.KindName(err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, yelp.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, yelp.ErrRateLimit):
		return http.StatusTooManyRequests
	case errors.Is(err, yelp.ErrConnection):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, yelp.ErrInvalidQuery):
		return "Enter a search term and a location."
	case errors.Is(err, yelp.ErrRateLimit):
		return "Too many searches right now. Try again shortly."
	case errors.Is(err, yelp.ErrAuth):
		return "The search provider rejected our credentials."
	case errors.Is(err, yelp.ErrConnection):
		return "The search provider could not be reached."
	case errors.Is(err, yelp.ErrParse), errors.Is(err, pins.ErrMapping):
		return "The search provider returned results we could not read."
	default:
		return "The search provider could not complete the search."
	}
}
