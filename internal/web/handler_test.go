// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/pinmap/internal/metrics"
	"github.com/pdiddy/pinmap/internal/pins"
	"github.com/pdiddy/pinmap/internal/yelp"
	"github.com/pdiddy/pinmap/pkg/types"
)

type stubSearcher struct {
	resp     types.SearchResponse
	err      error
	calls    int
	location string
}

func (s *stubSearcher) Search(_ context.Context, _, location string) (types.SearchResponse, error) {
	s.calls++
	s.location = location
	return s.resp, s.err
}

func farolito() types.SearchResponse {
	name := "El Farolito"
	lat, lng := 37.7509, -122.4477
	return types.SearchResponse{Total: 1, Businesses: []types.Business{{
		Name:        &name,
		Coordinates: &types.Coordinates{Latitude: &lat, Longitude: &lng},
	}}}
}

var testMap = types.MapConfig{GoogleAPIKey: "test-key", CenterLat: 32.7096298, CenterLng: -117.1602029, Zoom: 11}

type HandlerSuite struct {
	suite.Suite
	searcher *stubSearcher
	router   http.Handler
}

func (s *HandlerSuite) SetupTest() {
	s.searcher = &stubSearcher{resp: farolito()}
	log := zaptest.NewLogger(s.T())
	finder := &pins.Finder{Searcher: s.searcher, Log: log}

	h, err := New(finder, testMap, "San Diego", log)
	s.Require().NoError(err)

	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) get(target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decode(rec *httptest.ResponseRecorder) PinsResponse {
	var resp PinsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func (s *HandlerSuite) TestAPINoSearchTermReturnsEmptyWithoutCalls() {
	rec := s.get("/api/pins")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/json", rec.Header().Get("Content-Type"))
	s.JSONEq(`{"pins":[]}`, rec.Body.String())
	s.Equal(0, s.searcher.calls)
}

func (s *HandlerSuite) TestAPIReturnsPins() {
	rec := s.get("/api/pins?search=burrito&location=san+francisco")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal([]types.Pin{{Title: "El Farolito", Lat: 37.7509, Lng: -122.4477}}, s.decode(rec).Pins)
	s.Equal("san francisco", s.searcher.location)
}

func (s *HandlerSuite) TestAPIUsesDefaultLocation() {
	s.get("/api/pins?search=tacos")
	s.Equal("San Diego", s.searcher.location)
}

func (s *HandlerSuite) TestAPIErrors() {
	name := "Nowhere"
	tests := []struct {
		name       string
		resp       types.SearchResponse
		err        error
		wantStatus int
		wantKind   string
	}{
		{"auth", types.SearchResponse{}, &yelp.Error{Kind: yelp.ErrAuth, Op: "token", StatusCode: 401}, http.StatusBadGateway, "auth"},
		{"rate limit", types.SearchResponse{}, &yelp.Error{Kind: yelp.ErrRateLimit, Op: "search", StatusCode: 429}, http.StatusTooManyRequests, "rate_limit"},
		{"connection", types.SearchResponse{}, &yelp.Error{Kind: yelp.ErrConnection, Op: "token"}, http.StatusGatewayTimeout, "connection"},
		{"parse", types.SearchResponse{}, &yelp.Error{Kind: yelp.ErrParse, Op: "search"}, http.StatusBadGateway, "parse"},
		{"invalid query", types.SearchResponse{}, &yelp.Error{Kind: yelp.ErrInvalidQuery, Op: "search"}, http.StatusBadRequest, "invalid_query"},
		{"mapping", types.SearchResponse{Businesses: []types.Business{{Name: &name}}}, nil, http.StatusBadGateway, "mapping"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.searcher.resp = tt.resp
			s.searcher.err = tt.err

			rec := s.get("/api/pins?search=burrito")
			s.Equal(tt.wantStatus, rec.Code)

			resp := s.decode(rec)
			s.Equal(tt.wantKind, resp.Kind)
			s.NotEmpty(resp.Error)
			s.NotNil(resp.Pins)
			s.Empty(resp.Pins)
		})
	}
}

func (s *HandlerSuite) TestPageWithoutSearch() {
	rec := s.get("/")

	s.Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	s.Contains(body, `value="San Diego"`)
	s.Contains(body, "maps.googleapis.com/maps/api/js?key=test-key")
	s.Contains(body, "const pins = [];")
	s.NotContains(body, "No results found.")
	s.NotContains(body, `role="alert"`)
	s.Equal(0, s.searcher.calls)
}

func (s *HandlerSuite) TestPageRendersPins() {
	rec := s.get("/?search=burrito&location=san+francisco")

	s.Equal(http.StatusOK, rec.Code)
	body := rec.Body.String()
	s.Contains(body, "El Farolito (37.7509, -122.4477)")
	s.Contains(body, `"title":"El Farolito"`)
	s.Regexp(`const zoom =\s*11\s*;`, body)
}

func (s *HandlerSuite) TestPageNoResults() {
	s.searcher.resp = types.SearchResponse{}

	rec := s.get("/?search=zzzz")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "No results found.")
}

func (s *HandlerSuite) TestPageShowsErrorNotice() {
	s.searcher.err = &yelp.Error{Kind: yelp.ErrAuth, Op: "token", StatusCode: 401}

	rec := s.get("/?search=burrito")
	s.Equal(http.StatusBadGateway, rec.Code)
	body := rec.Body.String()
	s.Contains(body, `role="alert"`)
	s.Contains(body, "rejected our credentials")
	s.NotContains(body, "No results found.")
}

func (s *HandlerSuite) TestPageEscapesTerm() {
	rec := s.get("/?search=%3Cscript%3Ealert(1)%3C%2Fscript%3E")
	s.NotContains(rec.Body.String(), "<script>alert(1)</script>")
}

// --- Router ---

func TestRouterHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	log := zaptest.NewLogger(t)

	finder := &pins.Finder{Searcher: &stubSearcher{resp: farolito()}, Log: log, Metrics: m}
	h, err := New(finder, testMap, "San Diego", log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	router := NewRouter(h, reg, log)

	for _, target := range []string{"/healthz", "/api/pins?search=burrito"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", target, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `pinmap_lookups_total{result="ok"} 1`) {
		t.Errorf("metrics output missing lookup counter:\n%s", body)
	}
}

// --- End to end against a fake provider ---

func TestEndToEndTokenRejected(t *testing.T) {
	var tokenCalls, searchCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"code":"UNAUTHORIZED","description":"bad client"}}`)
	})
	mux.HandleFunc("/v3/businesses/search", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&searchCalls, 1)
	})
	provider := httptest.NewServer(mux)
	defer provider.Close()

	log := zaptest.NewLogger(t)
	client, err := yelp.NewClient(types.YelpConfig{
		HTTPConfig:  types.HTTPConfig{Timeout: time.Second},
		Credentials: types.Credentials{ClientID: "id", ClientSecret: "secret"},
		APIHost:     provider.URL,
	}, yelp.WithLogger(log))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	h, err := New(&pins.Finder{Searcher: client, Log: log}, testMap, "San Diego", log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	router := NewRouter(h, prometheus.NewRegistry(), log)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pins?search=burrito", nil))

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
	var resp PinsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Kind != "auth" {
		t.Errorf("kind = %q, want auth", resp.Kind)
	}
	if got := atomic.LoadInt32(&tokenCalls); got != 1 {
		t.Errorf("token calls = %d, want 1", got)
	}
	if got := atomic.LoadInt32(&searchCalls); got != 0 {
		t.Errorf("search calls = %d, want 0", got)
	}
}
