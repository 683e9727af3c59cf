// Package apollo is a minimal client for the Apollo.io people-search API,
// the primary verified-contact data source.
package apollo

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

const maxResponseSizeBytes = 4 << 20

// ErrMissingAPIKey is reported before any request is made when the client
// has no credential.
var ErrMissingAPIKey = errors.New("apollo api key is not set")

// Config is populated from the environment with the APOLLO prefix.
type Config struct {
	BaseURL string        `split_words:"true" default:"https://api.apollo.io/v1"`
	APIKey  string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"20s"`
}

// APIError is a provider-reported failure: Apollo answered, but without a
// usable people array.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("apollo api error (status=%d): %s", e.StatusCode, e.Message)
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

// Client talks to the Apollo people-search endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config, opts ...ClientOption) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// SearchRequest carries the person/organization filters for one search.
type SearchRequest struct {
	PersonTitles     []string `json:"person_titles,omitempty"`
	IndustryTagIDs   []string `json:"organization_industry_tag_ids,omitempty"`
	ContactLocations []string `json:"contact_locations,omitempty"`
	Page             int      `json:"page"`
	PerPage          int      `json:"per_page"`
}

// Person is one record in the people array.
type Person struct {
	FirstName        string       `json:"first_name"`
	LastName         string       `json:"last_name"`
	Title            string       `json:"title"`
	Email            string       `json:"email"`
	LinkedInURL      string       `json:"linkedin_url"`
	ContactLocations []string     `json:"contact_locations"`
	Organization     Organization `json:"organization"`
}

type Organization struct {
	Name       string `json:"name"`
	WebsiteURL string `json:"website_url"`
}

type searchPayload struct {
	SearchRequest
	APIKey string `json:"api_key"`
}

type searchResponse struct {
	People  []Person `json:"people"`
	Error   string   `json:"error"`
	Message string   `json:"message"`
}

// SearchPeople runs one filtered people search. A missing credential, a
// transport failure and a provider-reported failure are distinguishable
// through the returned error type.
func (c *Client) SearchPeople(ctx context.Context, req SearchRequest) ([]Person, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if req.Page <= 0 {
		req.Page = 1
	}

	body, err := json.Marshal(searchPayload{SearchRequest: req, APIKey: c.apiKey})
	if err != nil {
		return nil, fmt.Errorf("marshal search payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/people/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute search request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("undecodable response: %v", err)}
	}

	if parsed.People == nil {
		msg := parsed.Message
		if msg == "" {
			msg = parsed.Error
		}
		if msg == "" {
			msg = "unknown error"
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return parsed.People, nil
}
