package v1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrUnavailable covers transport failures, undecodable Atrium payloads and
// sessions that are still expired after a re-login.
var ErrUnavailable = errors.New("atrium unavailable")

// Transport handles low-level HTTP and the shared authenticated session.
//
// Atrium authenticates with a session cookie and expires it on its own
// schedule; the only expiry signal is a sentinel response body. Exactly one
// logged-in http.Client exists per process: readers take it under the read
// lock, Login installs a replacement under the write lock. A request made
// with a client that was swapped mid-flight still completes against the old
// cookie jar and at worst observes the expiry sentinel again.
type Transport struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration

	logger *slog.Logger

	mu     sync.RWMutex
	client *http.Client
}

// NewTransport creates a transport for the Atrium portal at baseURL. The
// transport has no session until Login runs.
func NewTransport(baseURL, username, password string, timeout time.Duration, logger *slog.Logger) *Transport {
	return &Transport{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		Username: username,
		Password: password,
		Timeout:  timeout,
		logger:   logger,
	}
}

func (t *Transport) current() *http.Client {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.client
}

// Login performs the portal login flow with a fresh cookie jar and installs
// the resulting client as the shared session. Concurrent callers may each
// log in during the same expiry window; the last install wins and every
// caller ends up with a usable session.
func (t *Transport) Login(ctx context.Context) error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("create cookie jar: %w", err)
	}
	client := &http.Client{Jar: jar, Timeout: t.Timeout}

	form := url.Values{}
	form.Set("username", t.Username)
	form.Set("password", t.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/do_login", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("login failed with status code %d: %s", resp.StatusCode, string(body))
	}
	t.logger.Info("logged in to atrium", "status", resp.StatusCode)

	t.mu.Lock()
	t.client = client
	t.mu.Unlock()
	return nil
}

// PostForm sends a form POST with the current session and returns the raw
// response body.
func (t *Transport) PostForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	client := t.current()
	if client == nil {
		return nil, fmt.Errorf("%w: no session, Login has not run", ErrUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: POST %s: %v", ErrUnavailable, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s response: %v", ErrUnavailable, path, err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: POST %s failed with status code %d: %s", ErrUnavailable, path, resp.StatusCode, string(data))
	}
	return data, nil
}
