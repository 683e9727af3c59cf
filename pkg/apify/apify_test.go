package apify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func noSleep(context.Context, time.Duration) error { return nil }

func newClient(t *testing.T, server *httptest.Server, cfg Config) *Client {
	t.Helper()
	cfg.BaseURL = server.URL
	if cfg.Token == "" {
		cfg.Token = "token"
	}
	return NewClient(cfg, WithHTTPClient(server.Client()), WithSleep(noSleep))
}

func TestStartRunRequiresToken(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{BaseURL: "https://example.invalid"})
	_, err := client.StartRun(context.Background(), RunInput{TotalRecords: 5})
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("StartRun() error = %v, want ErrMissingToken", err)
	}
}

func TestCollectRunSuccess(t *testing.T) {
	t.Parallel()

	var polls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/runs"):
			if got := r.Header.Get("Authorization"); got != "Bearer token" {
				t.Errorf("Authorization = %q", got)
			}
			fmt.Fprint(w, `{"id":"run-1","status":"READY"}`)
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/dataset/items"):
			fmt.Fprint(w, `[{"name":"Bob Johnson","title":"CTO","email":"bob@techboost.io","city":"Austin","country":"United States","organization":{"name":"TechBoost","industry":"AI SaaS"}}]`)
		case r.Method == http.MethodGet:
			polls++
			status := "RUNNING"
			if polls >= 3 {
				status = StatusSucceeded
			}
			fmt.Fprintf(w, `{"id":"run-1","status":%q}`, status)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server, Config{})
	items, err := client.CollectRun(context.Background(), RunInput{TotalRecords: 5})
	if err != nil {
		t.Fatalf("CollectRun() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Organization.Name != "TechBoost" {
		t.Fatalf("organization = %q, want TechBoost", items[0].Organization.Name)
	}
	if polls < 3 {
		t.Fatalf("status polled %d times, want >= 3", polls)
	}
}

func TestCollectRunTerminalFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			fmt.Fprint(w, `{"id":"run-2","status":"READY"}`)
			return
		}
		fmt.Fprint(w, `{"id":"run-2","status":"ABORTED"}`)
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server, Config{})
	_, err := client.CollectRun(context.Background(), RunInput{TotalRecords: 5})

	var runErr *RunFailedError
	if !errors.As(err, &runErr) {
		t.Fatalf("CollectRun() error = %v, want *RunFailedError", err)
	}
	if runErr.Status != StatusAborted {
		t.Fatalf("RunFailedError.Status = %q, want ABORTED", runErr.Status)
	}
}

func TestCollectRunPollBudgetExhausted(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			fmt.Fprint(w, `{"id":"run-3","status":"READY"}`)
			return
		}
		fmt.Fprint(w, `{"id":"run-3","status":"RUNNING"}`)
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server, Config{MaxPollAttempts: 4})
	_, err := client.CollectRun(context.Background(), RunInput{TotalRecords: 5})
	if !errors.Is(err, ErrRunTimedOut) {
		t.Fatalf("CollectRun() error = %v, want ErrRunTimedOut", err)
	}
}

func TestStartRunRejectedByProvider(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"message":"actor not found"}}`)
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server, Config{})
	_, err := client.StartRun(context.Background(), RunInput{TotalRecords: 5})

	var runErr *RunFailedError
	if !errors.As(err, &runErr) {
		t.Fatalf("StartRun() error = %v, want *RunFailedError", err)
	}
	if runErr.Status != "actor not found" {
		t.Fatalf("RunFailedError.Status = %q", runErr.Status)
	}
}
