package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"flight_search/internal/adapters/memcache"
	"flight_search/internal/app"
	"flight_search/internal/domain"
)

type stubSearcher struct {
	flights []domain.Flight
	err     error
}

func (s *stubSearcher) SearchFlights(ctx context.Context, c domain.SearchCriteria) ([]domain.Flight, error) {
	return s.flights, s.err
}

type stubLocations struct{}

func (stubLocations) Search(ctx context.Context, q string) []domain.Location {
	if len(q) < 2 {
		return []domain.Location{}
	}
	return []domain.Location{{ID: "ACDG", Type: domain.LocationAirport, Code: "CDG", DisplayName: "CDG - CHARLES DE GAULLE, PARIS"}}
}

func fl(id, price string, stops, minutes int) domain.Flight {
	return domain.Flight{
		ID:              id,
		Airline:         domain.Airline{Code: "AA", Name: "American Airlines"},
		DurationMinutes: minutes,
		StopCount:       stops,
		Price:           domain.Price{Amount: decimal.RequireFromString(price), Currency: "USD"},
		CabinClass:      domain.CabinEconomy,
	}
}

func newTestServer(t *testing.T, searcher *stubSearcher, ratePerIP int) *httptest.Server {
	t.Helper()
	sessions := memcache.NewSessions(time.Minute, func(id string) *app.Session {
		return app.NewSession(id, searcher, stubLocations{}, time.Millisecond)
	})
	srv := New(Options{RatePerIP: ratePerIP})
	srv.MountHandlers(&Handlers{Locations: stubLocations{}, Sessions: sessions})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string, hdr ...string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func createSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, body := do(t, http.MethodPost, ts.URL+"/v1/sessions", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session: %d %s", resp.StatusCode, body)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.ID == "" {
		t.Fatalf("create session body: %s", body)
	}
	return out.ID
}

const searchBody = `{"origin":"jfk","destination":"LAX","departureDate":"2026-11-02","passengers":1,"cabinClass":"economy"}`

func decodeView(t *testing.T, body []byte) app.View {
	t.Helper()
	var v app.View
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("decode view: %v (%s)", err, body)
	}
	return v
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &stubSearcher{}, 0)
	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "")
	if resp.StatusCode != 200 || string(body) != "ok" {
		t.Fatalf("healthz: %d %q", resp.StatusCode, body)
	}
}

func TestSearchFlow(t *testing.T) {
	ts := newTestServer(t, &stubSearcher{flights: []domain.Flight{
		fl("a", "350", 1, 300),
		fl("b", "200", 0, 120),
	}}, 0)
	id := createSession(t, ts)
	base := ts.URL + "/v1/sessions/" + id

	resp, body := do(t, http.MethodPost, base+"/search", searchBody)
	if resp.StatusCode != 200 {
		t.Fatalf("search: %d %s", resp.StatusCode, body)
	}
	v := decodeView(t, body)
	if v.Total != 2 || v.Flights[0].ID != "b" || len(v.Buckets) != 2 {
		t.Fatalf("search view: %+v", v)
	}

	resp, body = do(t, http.MethodGet, base+"/flights?sort=price-desc", "")
	if v = decodeView(t, body); resp.StatusCode != 200 || v.Flights[0].ID != "a" {
		t.Fatalf("sorted: %d %+v", resp.StatusCode, v)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}
	resp, _ = do(t, http.MethodGet, base+"/flights", "", "If-None-Match", etag)
	if resp.StatusCode != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", resp.StatusCode)
	}

	resp, body = do(t, http.MethodPut, base+"/filters",
		`{"priceMin":"0","priceMax":"1000","stops":[0],"airlines":[],"maxDuration":600}`)
	if v = decodeView(t, body); resp.StatusCode != 200 || len(v.Flights) != 1 || v.Flights[0].ID != "b" {
		t.Fatalf("filtered: %d %+v", resp.StatusCode, v)
	}

	resp, body = do(t, http.MethodDelete, base+"/filters", "")
	if v = decodeView(t, body); resp.StatusCode != 200 || len(v.Flights) != 2 || v.ActiveFilters != 0 {
		t.Fatalf("reset: %d %+v", resp.StatusCode, v)
	}
}

func TestBadRequests(t *testing.T) {
	ts := newTestServer(t, &stubSearcher{}, 0)
	base := ts.URL + "/v1/sessions/" + createSession(t, ts)

	cases := []struct {
		name, method, path, body string
	}{
		{"same origin and destination", http.MethodPost, "/search", `{"origin":"LAX","destination":"LAX","departureDate":"2026-11-02","passengers":1}`},
		{"malformed json", http.MethodPost, "/search", `{"origin":`},
		{"unknown field", http.MethodPost, "/search", `{"from":"JFK"}`},
		{"unknown sort", http.MethodGet, "/flights?sort=cheapest", ""},
		{"inverted price range", http.MethodPut, "/filters", `{"priceMin":500,"priceMax":100,"maxDuration":60}`},
	}
	for _, tc := range cases {
		resp, body := do(t, tc.method, base+tc.path, tc.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d %s", tc.name, resp.StatusCode, body)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
			t.Fatalf("%s: content type %q", tc.name, ct)
		}
	}
}

func TestUpstreamFailureIs502(t *testing.T) {
	searcher := &stubSearcher{err: &domain.AuthError{Status: 401, Err: errors.New("invalid_client")}}
	ts := newTestServer(t, searcher, 0)
	base := ts.URL + "/v1/sessions/" + createSession(t, ts)

	resp, body := do(t, http.MethodPost, base+"/search", searchBody)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	var p problem
	_ = json.Unmarshal(body, &p)
	if !strings.Contains(p.Detail, "API credentials") {
		t.Fatalf("detail should carry the user message: %+v", p)
	}

	searcher.err = &domain.SearchError{Status: 503, Err: errors.New("down")}
	if resp, _ = do(t, http.MethodPost, base+"/search", searchBody); resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("search error: expected 502, got %d", resp.StatusCode)
	}
}

func TestUnknownAndDeletedSession(t *testing.T) {
	ts := newTestServer(t, &stubSearcher{}, 0)
	if resp, _ := do(t, http.MethodGet, ts.URL+"/v1/sessions/nope/flights", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	id := createSession(t, ts)
	if resp, _ := do(t, http.MethodDelete, ts.URL+"/v1/sessions/"+id, ""); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if resp, _ := do(t, http.MethodGet, ts.URL+"/v1/sessions/"+id+"/flights", ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestLocationsAndSuggestions(t *testing.T) {
	ts := newTestServer(t, &stubSearcher{}, 0)

	resp, body := do(t, http.MethodGet, ts.URL+"/v1/locations?q=par", "")
	var locs []domain.Location
	if err := json.Unmarshal(body, &locs); err != nil || resp.StatusCode != 200 || len(locs) != 1 || locs[0].Code != "CDG" {
		t.Fatalf("locations: %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodGet, ts.URL+"/v1/locations?q=p", "")
	if resp.StatusCode != 200 || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("short query: %d %s", resp.StatusCode, body)
	}

	id := createSession(t, ts)
	resp, body = do(t, http.MethodGet, ts.URL+"/v1/sessions/"+id+"/suggestions?q=par", "")
	if err := json.Unmarshal(body, &locs); err != nil || resp.StatusCode != 200 || len(locs) != 1 {
		t.Fatalf("suggestions: %d %s", resp.StatusCode, body)
	}
}

func TestRateLimitPerIP(t *testing.T) {
	ts := newTestServer(t, &stubSearcher{}, 1)

	limited := 0
	for i := 0; i < 5; i++ {
		resp, _ := do(t, http.MethodGet, ts.URL+"/healthz", "", "X-Forwarded-For", "203.0.113.7")
		if resp.StatusCode == http.StatusTooManyRequests {
			limited++
		}
	}
	if limited == 0 {
		t.Fatalf("expected some requests to be limited")
	}
	if resp, _ := do(t, http.MethodGet, ts.URL+"/healthz", "", "X-Forwarded-For", "198.51.100.1"); resp.StatusCode != 200 {
		t.Fatalf("other client should not be limited, got %d", resp.StatusCode)
	}
}
