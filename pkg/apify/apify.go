// Package apify is a client for the Apify actor-run API, the secondary
// (scraping-job) lead source. A run is started, polled until it reaches a
// terminal status, and its dataset fetched on success.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxResponseSizeBytes = 8 << 20

// Run statuses reported by the platform.
const (
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
	StatusAborted   = "ABORTED"
	StatusTimedOut  = "TIMED-OUT"
)

var (
	// ErrMissingToken is reported before any request is made when the
	// client has no credential.
	ErrMissingToken = errors.New("apify api token is not set")

	// ErrRunTimedOut means the polling budget was exhausted before the run
	// reached a terminal status. Distinct from a provider-reported failure.
	ErrRunTimedOut = errors.New("apify run timed out")
)

// RunFailedError is a terminal failure reported by the platform itself.
type RunFailedError struct {
	RunID  string
	Status string
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("apify run %s finished with status %s", e.RunID, e.Status)
}

// Config is populated from the environment with the APIFY prefix.
type Config struct {
	BaseURL         string        `split_words:"true" default:"https://api.apify.com/v2"`
	Token           string        `split_words:"true"`
	ActorID         string        `split_words:"true" default:"code_crafter~apollo-io-scraper"`
	Timeout         time.Duration `split_words:"true" default:"30s"`
	PollInterval    time.Duration `split_words:"true" default:"5s"`
	MaxPollAttempts int           `split_words:"true" default:"30"`
}

// SleepFunc waits for d or returns early with the context error. Injected
// by tests to simulate timeouts without real delay.
type SleepFunc func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithSleep(sleep SleepFunc) ClientOption {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// Client drives actor runs for one configured actor.
type Client struct {
	baseURL         string
	token           string
	actorID         string
	pollInterval    time.Duration
	maxPollAttempts int
	httpClient      *http.Client
	sleep           SleepFunc
}

func NewClient(cfg Config, opts ...ClientOption) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	maxAttempts := cfg.MaxPollAttempts
	if maxAttempts <= 0 {
		maxAttempts = 30
	}

	c := &Client{
		baseURL:         strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:           strings.TrimSpace(cfg.Token),
		actorID:         strings.TrimSpace(cfg.ActorID),
		pollInterval:    pollInterval,
		maxPollAttempts: maxAttempts,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		sleep: defaultSleep,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// RunInput is the actor input for the Apollo scraper.
type RunInput struct {
	CleanOutput  bool   `json:"cleanOutput"`
	TotalRecords int    `json:"totalRecords"`
	URL          string `json:"url"`
}

// Item is one scraped record from the run dataset.
type Item struct {
	Name         string       `json:"name"`
	Title        string       `json:"title"`
	Email        string       `json:"email"`
	LinkedInURL  string       `json:"linkedin_url"`
	City         string       `json:"city"`
	State        string       `json:"state"`
	Country      string       `json:"country"`
	Organization Organization `json:"organization"`
}

type Organization struct {
	Name       string `json:"name"`
	WebsiteURL string `json:"website_url"`
	Industry   string `json:"industry"`
}

type runResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
}

// StartRun submits a new actor run and returns its identifier.
func (c *Client) StartRun(ctx context.Context, input RunInput) (string, error) {
	if c.token == "" {
		return "", ErrMissingToken
	}

	body, err := json.Marshal(map[string]any{"input": input})
	if err != nil {
		return "", fmt.Errorf("marshal run input: %w", err)
	}

	url := fmt.Sprintf("%s/acts/%s/runs", c.baseURL, c.actorID)
	var parsed runResponse
	if err := c.do(ctx, http.MethodPost, url, bytes.NewReader(body), &parsed); err != nil {
		return "", err
	}
	if parsed.ID == "" {
		msg := parsed.Error.Message
		if msg == "" {
			msg = "run id missing from response"
		}
		return "", &RunFailedError{Status: msg}
	}
	return parsed.ID, nil
}

// RunStatus fetches the current status string of a run.
func (c *Client) RunStatus(ctx context.Context, runID string) (string, error) {
	url := fmt.Sprintf("%s/acts/%s/runs/%s", c.baseURL, c.actorID, runID)
	var parsed runResponse
	if err := c.do(ctx, http.MethodGet, url, nil, &parsed); err != nil {
		return "", err
	}
	return parsed.Status, nil
}

// DatasetItems fetches the scraped records of a finished run.
func (c *Client) DatasetItems(ctx context.Context, runID string) ([]Item, error) {
	url := fmt.Sprintf("%s/acts/%s/runs/%s/dataset/items", c.baseURL, c.actorID, runID)
	var items []Item
	if err := c.do(ctx, http.MethodGet, url, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CollectRun is the full job flow: start, poll within the attempt budget at
// a fixed interval, then fetch the dataset after a terminal success. A
// terminal failure status yields *RunFailedError; budget exhaustion yields
// ErrRunTimedOut.
func (c *Client) CollectRun(ctx context.Context, input RunInput) ([]Item, error) {
	runID, err := c.StartRun(ctx, input)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < c.maxPollAttempts; attempt++ {
		status, err := c.RunStatus(ctx, runID)
		if err != nil {
			return nil, err
		}

		switch status {
		case StatusSucceeded:
			return c.DatasetItems(ctx, runID)
		case StatusFailed, StatusAborted, StatusTimedOut:
			return nil, &RunFailedError{RunID: runID, Status: status}
		}

		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: run %s after %d attempts", ErrRunTimedOut, runID, c.maxPollAttempts)
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader, out any) error {
	if c.token == "" {
		return ErrMissingToken
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build apify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute apify request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read apify response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &RunFailedError{Status: fmt.Sprintf("http status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode apify response: %w", err)
	}
	return nil
}
