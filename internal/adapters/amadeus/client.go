package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"flight_search/internal/adapters/observability"
	"flight_search/internal/domain"
)

const (
	maxOffers     = 50
	currency      = "USD"
	locationLimit = 10
)

// StatusError is any non-success response. A 404 matches domain.ErrNotFound through errors.Is.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("bad status %d", e.Code)
	}
	return fmt.Sprintf("bad status %d: %s", e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == domain.ErrNotFound && e.Code == http.StatusNotFound
}

type Client struct {
	base   string
	hc     *http.Client
	tokens TokenSource
	rl     *rate.Limiter
}

var _ domain.FlightAPI = (*Client)(nil)

func New(base string, tokens TokenSource, rps int) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("token source is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		hc:     &http.Client{Timeout: 20 * time.Second},
		tokens: tokens,
		rl:     rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// offersResponse defers each offer's decoding so a malformed offer is skipped on its own.
type offersResponse struct {
	Data []json.RawMessage `json:"data"`
}

// SearchOffers runs one offer search. The token is resolved before the search request is sent.
func (c *Client) SearchOffers(ctx context.Context, sc domain.SearchCriteria) ([]domain.RawOffer, error) {
	q := url.Values{}
	q.Set("originLocationCode", sc.Origin)
	q.Set("destinationLocationCode", sc.Destination)
	q.Set("departureDate", sc.DepartureDate)
	q.Set("adults", strconv.Itoa(sc.Passengers))
	q.Set("travelClass", string(sc.CabinClass))
	q.Set("max", strconv.Itoa(maxOffers))
	q.Set("currencyCode", currency)
	if sc.TripType == domain.RoundTrip && sc.ReturnDate != "" {
		q.Set("returnDate", sc.ReturnDate)
	}

	var out offersResponse
	err := c.get(ctx, "offers", c.base+"/v2/shopping/flight-offers?"+q.Encode(), &out)
	if err != nil {
		var ae *domain.AuthError
		if errors.As(err, &ae) || ctx.Err() != nil {
			return nil, err
		}
		return nil, &domain.SearchError{Status: statusOf(err), Err: err}
	}
	offers := make([]domain.RawOffer, 0, len(out.Data))
	for _, raw := range out.Data {
		offers = append(offers, domain.DecodeOffer(raw))
	}
	return offers, nil
}

type locationsResponse struct {
	Data []domain.RawLocation `json:"data"`
}

func (c *Client) SearchLocations(ctx context.Context, keyword string) ([]domain.RawLocation, error) {
	q := url.Values{}
	q.Set("subType", "AIRPORT,CITY")
	q.Set("keyword", keyword)
	q.Set("page[limit]", strconv.Itoa(locationLimit))

	var out locationsResponse
	if err := c.get(ctx, "locations", c.base+"/v1/reference-data/locations?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ---- Internals ----

// statusOf reports the HTTP status behind err; a body that failed to decode came with a 200.
func statusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	var de *decodeError
	if errors.As(err, &de) {
		return de.status
	}
	return 0
}

type decodeError struct {
	status int
	err    error
}

func (e *decodeError) Error() string { return "malformed response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

// get performs one rate-limited, bearer-authenticated GET and decodes JSON into out.
// There is no retry: a failure is reported once to the caller.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "flight-search/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal(endpoint, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &decodeError{status: resp.StatusCode, err: err}
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized:
		// the cached token was rejected; the next user action fetches a fresh one
		c.tokens.Invalidate()
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode}

	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
}
