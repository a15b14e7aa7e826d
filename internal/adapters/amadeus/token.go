package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"flight_search/internal/adapters/observability"
	"flight_search/internal/domain"
)

// expiryMargin is subtracted from expires_in so a token is refreshed before the server drops it.
const expiryMargin = 300

// TokenSource hands out bearer tokens for the flight API.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// TokenManager caches one client-credentials token. One instance per process, shared by
// every caller that talks to the API.
type TokenManager struct {
	endpoint     string
	clientID     string
	clientSecret string
	hc           *http.Client
	now          func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewTokenManager(base, clientID, clientSecret string, hc *http.Client) (*TokenManager, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("client id and secret are required")
	}
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &TokenManager{
		endpoint:     strings.TrimRight(base, "/") + "/v1/security/oauth2/token",
		clientID:     clientID,
		clientSecret: clientSecret,
		hc:           hc,
		now:          time.Now,
	}, nil
}

// SetClock replaces the time source; tests use it to move past expiry.
func (m *TokenManager) SetClock(now func() time.Time) {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
}

// Token returns the cached token while it is valid, otherwise fetches a new one.
// Concurrent callers wait on the same refresh. Failures are *domain.AuthError and are not retried.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.now().Before(m.expiry) {
		return m.token, nil
	}
	tok, expiresIn, err := m.fetch(ctx)
	if err != nil {
		return "", err
	}
	m.token = tok
	m.expiry = m.now().Add(time.Duration(expiresIn-expiryMargin) * time.Second)
	return tok, nil
}

// Invalidate drops the cached token, e.g. after the API rejected it.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	m.token = ""
	m.expiry = time.Time{}
	m.mu.Unlock()
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (m *TokenManager) fetch(ctx context.Context) (string, int, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", m.clientID)
	form.Set("client_secret", m.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, &domain.AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := m.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("token", 0, time.Since(start))
		return "", 0, &domain.AuthError{Err: err}
	}
	defer resp.Body.Close()
	observability.ObserveExternal("token", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", 0, &domain.AuthError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("token request rejected: %s", strings.TrimSpace(string(b))),
		}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", 0, &domain.AuthError{Status: resp.StatusCode, Err: fmt.Errorf("malformed token body: %w", err)}
	}
	if tr.AccessToken == "" {
		return "", 0, &domain.AuthError{Status: resp.StatusCode, Err: errors.New("malformed token body: missing access_token")}
	}
	return tr.AccessToken, tr.ExpiresIn, nil
}
