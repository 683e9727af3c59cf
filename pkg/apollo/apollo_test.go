package apollo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchPeopleRequiresAPIKey(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{BaseURL: "https://example.invalid"})
	_, err := client.SearchPeople(context.Background(), SearchRequest{PerPage: 5})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("SearchPeople() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestSearchPeopleSendsFilters(t *testing.T) {
	t.Parallel()

	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if r.URL.Path != "/people/search" {
			t.Errorf("path = %q, want /people/search", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		fmt.Fprint(w, `{"people":[{"first_name":"Alice","last_name":"Smith","title":"Founder","email":"alice@growthai.io","organization":{"name":"GrowthAI"}}]}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{BaseURL: server.URL, APIKey: "key"}, WithHTTPClient(server.Client()))
	people, err := client.SearchPeople(context.Background(), SearchRequest{
		PersonTitles:     []string{"Founder"},
		IndustryTagIDs:   []string{"AI SaaS"},
		ContactLocations: []string{"United States"},
		PerPage:          5,
	})
	if err != nil {
		t.Fatalf("SearchPeople() error = %v", err)
	}
	if len(people) != 1 {
		t.Fatalf("got %d people, want 1", len(people))
	}
	if people[0].FirstName != "Alice" {
		t.Fatalf("first name = %q, want Alice", people[0].FirstName)
	}

	if gotPayload["api_key"] != "key" {
		t.Fatalf("payload api_key = %v, want %q", gotPayload["api_key"], "key")
	}
	if gotPayload["per_page"] != float64(5) {
		t.Fatalf("payload per_page = %v, want 5", gotPayload["per_page"])
	}
	if gotPayload["page"] != float64(1) {
		t.Fatalf("payload page = %v, want 1", gotPayload["page"])
	}
}

func TestSearchPeopleProviderError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"invalid industry tag"}`)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Config{BaseURL: server.URL, APIKey: "key"}, WithHTTPClient(server.Client()))
	_, err := client.SearchPeople(context.Background(), SearchRequest{PerPage: 5})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("SearchPeople() error = %v, want *APIError", err)
	}
	if apiErr.Message != "invalid industry tag" {
		t.Fatalf("APIError.Message = %q", apiErr.Message)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("APIError.StatusCode = %d", apiErr.StatusCode)
	}
}

func TestSearchPeopleTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := NewClient(Config{BaseURL: server.URL, APIKey: "key"})
	_, err := client.SearchPeople(context.Background(), SearchRequest{PerPage: 5})
	if err == nil {
		t.Fatal("SearchPeople() expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure misclassified as APIError: %v", err)
	}
}
