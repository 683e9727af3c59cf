package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
	apollox "github.com/leadpilot-ai/leadpilot/pkg/apollo"
)

// ApolloSource is the primary adapter: the verified-contact-database API.
type ApolloSource struct {
	client *apollox.Client
}

var _ contractx.LeadSource = (*ApolloSource)(nil)

func NewApolloSource(client *apollox.Client) *ApolloSource {
	return &ApolloSource{client: client}
}

func (s *ApolloSource) Name() string { return "apollo" }

func (s *ApolloSource) Fetch(ctx context.Context, q contractx.Query) ([]contractx.Lead, error) {
	req := apollox.SearchRequest{PerPage: q.Count}
	if strings.TrimSpace(q.Role) != "" {
		req.PersonTitles = []string{q.Role}
	}
	if strings.TrimSpace(q.Industry) != "" {
		req.IndustryTagIDs = []string{q.Industry}
	}
	if strings.TrimSpace(q.Location) != "" {
		req.ContactLocations = []string{q.Location}
	}

	people, err := s.client.SearchPeople(ctx, req)
	if err != nil {
		return nil, classifyApolloError(err)
	}

	leads := make([]contractx.Lead, 0, len(people))
	for _, p := range people {
		lead := contractx.Lead{
			Name:     strings.TrimSpace(p.FirstName + " " + p.LastName),
			Title:    p.Title,
			Company:  p.Organization.Name,
			Email:    p.Email,
			LinkedIn: p.LinkedInURL,
			Industry: q.Industry,
			Location: q.Location,
			Website:  p.Organization.WebsiteURL,
		}
		if len(p.ContactLocations) > 0 && strings.TrimSpace(p.ContactLocations[0]) != "" {
			lead.Location = p.ContactLocations[0]
		}
		if !lead.Valid() {
			continue
		}
		leads = append(leads, lead)
	}

	if len(leads) == 0 {
		return nil, fmt.Errorf("%w: apollo returned no usable leads", contractx.ErrProvider)
	}
	return leads, nil
}

func classifyApolloError(err error) error {
	var apiErr *apollox.APIError
	switch {
	case errors.Is(err, apollox.ErrMissingAPIKey):
		return fmt.Errorf("%w: %v", contractx.ErrConfiguration, err)
	case errors.As(err, &apiErr):
		return fmt.Errorf("%w: %v", contractx.ErrProvider, err)
	default:
		return fmt.Errorf("%w: %v", contractx.ErrTransport, err)
	}
}
