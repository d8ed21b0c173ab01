// Package ytj looks up Finnish companies in the PRH open data register.
package ytj

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://avoindata.prh.fi/opendata-ytj-api/v3"

// Company is one register match.
type Company struct {
	BusinessID string `json:"businessId"`
	Name       string `json:"name"`
}

// Client queries the company register.
type Client interface {
	// ByBusinessID returns the company or nil when the id is unknown.
	ByBusinessID(ctx context.Context, businessID string) (*Company, error)
	// Autocomplete returns up to limit companies ranked against partialName.
	Autocomplete(ctx context.Context, partialName string, limit int) ([]Company, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) { c.baseURL = url }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRateLimit caps outgoing requests per second. Zero disables the limit.
func WithRateLimit(perSecond float64) Option {
	return func(c *httpClient) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			c.limiter = nil
		}
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a register client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type apiResponse struct {
	TotalResults int          `json:"totalResults"`
	Companies    []apiCompany `json:"companies"`
}

type apiCompany struct {
	BusinessID struct {
		Value string `json:"value"`
	} `json:"businessId"`
	Names []struct {
		Name    string `json:"name"`
		Type    string `json:"type"`
		EndDate string `json:"endDate"`
	} `json:"names"`
}

// currentName prefers a name without an end date.
func (a apiCompany) currentName() string {
	for _, n := range a.Names {
		if n.EndDate == "" {
			return n.Name
		}
	}
	if len(a.Names) > 0 {
		return a.Names[0].Name
	}
	return ""
}

func (c *httpClient) ByBusinessID(ctx context.Context, businessID string) (*Company, error) {
	resp, err := c.get(ctx, url.Values{"businessId": {businessID}})
	if err != nil {
		return nil, err
	}
	for _, co := range resp.Companies {
		if name := co.currentName(); name != "" {
			return &Company{BusinessID: businessID, Name: name}, nil
		}
	}
	return nil, nil
}

func (c *httpClient) Autocomplete(ctx context.Context, partialName string, limit int) ([]Company, error) {
	resp, err := c.get(ctx, url.Values{"name": {partialName}})
	if err != nil {
		return nil, err
	}
	out := make([]Company, 0, len(resp.Companies))
	for _, co := range resp.Companies {
		if name := co.currentName(); name != "" {
			out = append(out, Company{BusinessID: co.BusinessID.Value, Name: name})
		}
	}
	return Top(Rank(out, partialName), limit), nil
}

func (c *httpClient) get(ctx context.Context, q url.Values) (*apiResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "ytj: rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/companies?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "ytj: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ytj: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "ytj: read response")
	}
	// The register answers 404 when nothing matches.
	if resp.StatusCode == http.StatusNotFound {
		return &apiResponse{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("ytj: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "ytj: decode response")
	}
	return &out, nil
}
