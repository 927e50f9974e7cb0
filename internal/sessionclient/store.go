// Package sessionclient tracks a customer session from the client side of
// the storefront API: whether someone is logged in and who.
package sessionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gojektech/heimdall/v6/httpclient"

	"storefront/internal/domain"
)

type Status string

const (
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Doer sends HTTP requests. Session cookies must be carried between calls,
// usually through a cookie jar on the underlying client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Notifier receives user-facing outcome messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// LoginError carries the message shown for a rejected login.
type LoginError struct {
	Message string
}

func (e *LoginError) Error() string { return e.Message }

var ErrLogoutFailed = errors.New("logout failed")

// NewHTTPClient returns a Doer with a fixed timeout and no retries that
// keeps cookies in jar.
func NewHTTPClient(timeout time.Duration, jar http.CookieJar) Doer {
	return httpclient.NewClient(
		httpclient.WithHTTPClient(&http.Client{Timeout: timeout, Jar: jar}),
		httpclient.WithRetryCount(0),
	)
}

type Options struct {
	// BaseURL is the storefront origin, e.g. "http://localhost:8080".
	BaseURL  string
	HTTP     Doer
	Notifier Notifier
}

// Store holds the session state for one application root. It starts in
// StatusLoading until the first Refresh completes.
type Store struct {
	baseURL string
	http    Doer
	notify  Notifier

	mu       sync.RWMutex
	status   Status
	customer *domain.Customer
}

func New(opts Options) *Store {
	notify := opts.Notifier
	if notify == nil {
		notify = nopNotifier{}
	}
	doer := opts.HTTP
	if doer == nil {
		doer = NewHTTPClient(10*time.Second, nil)
	}
	return &Store{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    doer,
		notify:  notify,
		status:  StatusLoading,
	}
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Customer returns the logged-in customer, or nil.
func (s *Store) Customer() *domain.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customer
}

// Start performs the initial session fetch.
func (s *Store) Start(ctx context.Context) {
	s.Refresh(ctx)
}

// Refresh re-reads the session. Any failure reads as logged out.
func (s *Store) Refresh(ctx context.Context) {
	var body struct {
		Customer *domain.Customer `json:"customer"`
	}
	status, err := s.call(ctx, http.MethodGet, nil, &body)
	if err != nil || status != http.StatusOK || body.Customer == nil {
		s.set(StatusUnauthenticated, nil)
		return
	}
	s.set(StatusAuthenticated, body.Customer)
}

// Logout ends the session. On failure the current state is kept.
func (s *Store) Logout(ctx context.Context) error {
	status, err := s.call(ctx, http.MethodPost, map[string]any{"action": "logout"}, nil)
	if err != nil || status < 200 || status > 299 {
		s.notify.Error("Failed to logout")
		if err == nil {
			err = fmt.Errorf("%w: status %d", ErrLogoutFailed, status)
		}
		return err
	}
	s.set(StatusUnauthenticated, nil)
	s.notify.Success("Logged out successfully")
	return nil
}

// Login submits credentials and refreshes the session on success. A rejected
// login returns a *LoginError with the first reported message.
func (s *Store) Login(ctx context.Context, email, password string) error {
	var body struct {
		Errors []domain.UserError `json:"errors"`
		Error  string             `json:"error"`
	}
	status, err := s.call(ctx, http.MethodPost, map[string]any{
		"action":   "login",
		"email":    email,
		"password": password,
	}, &body)
	if err != nil {
		s.notify.Error("Login failed")
		return err
	}
	if status != http.StatusOK || len(body.Errors) > 0 {
		msg := "Login failed"
		switch {
		case len(body.Errors) > 0 && body.Errors[0].Message != "":
			msg = body.Errors[0].Message
		case body.Error != "":
			msg = body.Error
		}
		s.notify.Error("Login failed")
		return &LoginError{Message: msg}
	}

	s.Refresh(ctx)
	s.notify.Success("Login successful")
	return nil
}

func (s *Store) set(status Status, c *domain.Customer) {
	s.mu.Lock()
	s.status, s.customer = status, c
	s.mu.Unlock()
}

// call talks to the auth endpoint. A non-2xx status is not an error; out is
// decoded whenever the body holds JSON.
func (s *Store) call(ctx context.Context, method string, payload any, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+"/api/auth", body)
	if err != nil {
		return 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if resp == nil {
		if err == nil {
			err = errors.New("no response")
		}
		return 0, err
	}
	// heimdall reports 5xx as an error alongside the response.
	defer resp.Body.Close()
	if out != nil {
		if derr := json.NewDecoder(resp.Body).Decode(out); derr != nil && resp.StatusCode < 300 {
			return resp.StatusCode, derr
		}
	}
	return resp.StatusCode, nil
}
