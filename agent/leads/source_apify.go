package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/leadpilot-ai/leadpilot/agent/contract"
	apifyx "github.com/leadpilot-ai/leadpilot/pkg/apify"
)

// searchBaseURL is the Apollo people-search page the scraper actor walks.
const searchBaseURL = "https://app.apollo.io/#/people?sortAscending=false&sortByField=recommendations_score&page=1"

// ApifySource is the secondary adapter: an asynchronous scraping-job
// platform driving an Apollo scraper actor.
type ApifySource struct {
	client *apifyx.Client
}

var _ contractx.LeadSource = (*ApifySource)(nil)

func NewApifySource(client *apifyx.Client) *ApifySource {
	return &ApifySource{client: client}
}

func (s *ApifySource) Name() string { return "apify" }

func (s *ApifySource) Fetch(ctx context.Context, q contractx.Query) ([]contractx.Lead, error) {
	items, err := s.client.CollectRun(ctx, apifyx.RunInput{
		CleanOutput:  true,
		TotalRecords: q.Count,
		URL:          scraperURL(q),
	})
	if err != nil {
		return nil, classifyApifyError(err)
	}

	leads := make([]contractx.Lead, 0, len(items))
	for _, item := range items {
		industry := item.Organization.Industry
		if strings.TrimSpace(industry) == "" {
			industry = q.Industry
		}
		location := joinLocation(item.City, item.State, item.Country)
		if location == "" {
			location = q.Location
		}

		lead := contractx.Lead{
			Name:     item.Name,
			Title:    item.Title,
			Company:  item.Organization.Name,
			Email:    item.Email,
			LinkedIn: item.LinkedInURL,
			Industry: industry,
			Location: location,
			Website:  item.Organization.WebsiteURL,
		}
		if !lead.Valid() {
			continue
		}
		leads = append(leads, lead)
	}

	if len(leads) == 0 {
		return nil, fmt.Errorf("%w: apify run produced no usable leads", contractx.ErrProvider)
	}
	return leads, nil
}

func scraperURL(q contractx.Query) string {
	url := searchBaseURL
	if role := strings.TrimSpace(q.Role); role != "" {
		url += "&personTitles[]=" + strings.ReplaceAll(strings.ToLower(role), " ", "+")
	}
	return url
}

func joinLocation(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

func classifyApifyError(err error) error {
	var runErr *apifyx.RunFailedError
	switch {
	case errors.Is(err, apifyx.ErrMissingToken):
		return fmt.Errorf("%w: %v", contractx.ErrConfiguration, err)
	case errors.Is(err, apifyx.ErrRunTimedOut):
		return fmt.Errorf("%w: %v", contractx.ErrTimeout, err)
	case errors.As(err, &runErr):
		return fmt.Errorf("%w: %v", contractx.ErrProvider, err)
	default:
		return fmt.Errorf("%w: %v", contractx.ErrTransport, err)
	}
}
