package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const searchPath = "/v1/organizations/search"

// Criteria holds the filters sent with every organization search.
type Criteria struct {
	EmployeeRange string
	Industry      string
	Location      string
	PerPage       int
}

// Organization is the subset of an Apollo organization record used by the pipeline.
// Pointer fields distinguish an omitted value from an empty one.
type Organization struct {
	Name                  *string `json:"name"`
	WebsiteURL            *string `json:"website_url"`
	EstimatedNumEmployees *int    `json:"estimated_num_employees"`
}

// DisplayName returns the organization name or "Unknown" when the API omitted it.
func (o Organization) DisplayName() string {
	if o.Name == nil {
		return "Unknown"
	}
	return *o.Name
}

// Website returns the trimmed website URL, empty when absent.
func (o Organization) Website() string {
	if o.WebsiteURL == nil {
		return ""
	}
	return strings.TrimSpace(*o.WebsiteURL)
}

// EmployeeCount returns the estimated headcount, zero when absent.
func (o Organization) EmployeeCount() int {
	if o.EstimatedNumEmployees == nil {
		return 0
	}
	return *o.EstimatedNumEmployees
}

// Searcher finds organizations matching a set of criteria.
type Searcher interface {
	SearchOrganizations(ctx context.Context, criteria Criteria) ([]Organization, error)
}

// Client calls the Apollo organization search endpoint.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

var _ Searcher = (*Client)(nil)

// NewClient builds a search client. A nil http client gets a 30s timeout.
func NewClient(client *http.Client, baseURL, apiKey string) *Client {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type searchRequest struct {
	PerPage       int      `json:"per_page"`
	EmployeeRange []string `json:"organization_num_employees_ranges"`
	Industries    []string `json:"organization_industries"`
	Locations     []string `json:"organization_locations"`
}

type searchResponse struct {
	Organizations []Organization `json:"organizations"`
}

// SearchOrganizations issues a single search request. Any transport, status or decoding
// failure is returned as an error; there is no retry.
func (c *Client) SearchOrganizations(ctx context.Context, criteria Criteria) ([]Organization, error) {
	body, err := json.Marshal(searchRequest{
		PerPage:       criteria.PerPage,
		EmployeeRange: []string{criteria.EmployeeRange},
		Industries:    []string{criteria.Industry},
		Locations:     []string{criteria.Location},
	})
	if err != nil {
		return nil, eris.Wrap(err, "apollo: marshal search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "apollo: create search request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "apollo: search request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("apollo: search returned %s: %s", resp.Status, extractError(resp.Body))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, eris.Wrap(err, "apollo: decode search response")
	}

	zap.L().Debug("apollo: organizations found",
		zap.Int("count", len(payload.Organizations)),
		zap.String("industry", criteria.Industry),
		zap.String("location", criteria.Location),
	)

	return payload.Organizations, nil
}

func extractError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 2048))
	if err != nil || len(data) == 0 {
		return "no response body"
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(data))
}
