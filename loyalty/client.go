/*
Package loyalty implements the upstream loyalty-program API client.

PURPOSE:
  The one place HTTP happens. Implements generic.Source against the
  program's REST API: bearer-token auth, a pinned api-version header, and
  the {data, meta} response envelope shared by every endpoint.

AUTH:
  Every request carries "Authorization: Bearer <token>" and an
  "api-version" header. Token acquisition is someone else's job; a client
  constructed without a token fails immediately with a configuration
  error, before any I/O.

FAILURE MODEL:
  Timeouts and non-2xx responses return errors. The engine absorbs them
  at stage boundaries (pagination fallback, listing-only entities, empty
  reference tables); nothing here panics or retries on its own beyond
  what the engine's fallback rules specify.

SEE ALSO:
  - generic/types.go: The Source interface this satisfies
  - generic/run.go: Where failures degrade instead of propagating
*/
package loyalty

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/warp/loyalty-reporter/generic"
)

const (
	// DefaultAPIVersion pins the upstream schema version.
	DefaultAPIVersion = "2025.3"

	// DefaultTimeout bounds one request.
	DefaultTimeout = 30 * time.Second
)

// Config holds client construction parameters.
type Config struct {
	BaseURL    string
	Token      string
	APIVersion string        // defaults to DefaultAPIVersion
	Timeout    time.Duration // defaults to DefaultTimeout
}

// Client is an HTTP client for the loyalty API. Implements generic.Source.
type Client struct {
	baseURL    string
	token      string
	apiVersion string
	httpClient *http.Client
	logger     *zap.Logger
}

// Compile-time check that Client implements generic.Source.
var _ generic.Source = (*Client)(nil)

// NewClient constructs a client. Missing token or base URL is a
// configuration error and fails fast.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, generic.ErrMissingCredentials
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, generic.ErrMissingBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.Token,
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}, nil
}

// envelope is the {data, meta} wrapper every endpoint returns. Data is
// kept raw because list endpoints hold an array and detail endpoints an
// object.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta map[string]any  `json:"meta"`
}

// =============================================================================
// SOURCE IMPLEMENTATION
// =============================================================================

// ListPage fetches one page of a paginated collection endpoint.
func (c *Client) ListPage(ctx context.Context, endpoint string, page, perPage int) ([]generic.EntityRecord, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("perPage", strconv.Itoa(perPage))
	env, err := c.get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	return decodeList(env)
}

// List fetches an unpaginated collection endpoint.
func (c *Client) List(ctx context.Context, endpoint string) ([]generic.EntityRecord, error) {
	env, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeList(env)
}

// Detail fetches a single record from a per-id endpoint.
func (c *Client) Detail(ctx context.Context, endpoint string) (generic.EntityRecord, error) {
	env, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	var rec generic.EntityRecord
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		return nil, fmt.Errorf("decode detail %s: %w", endpoint, err)
	}
	return rec, nil
}

func decodeList(env envelope) ([]generic.EntityRecord, error) {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	var records []generic.EntityRecord
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, fmt.Errorf("decode list data: %w", err)
	}
	return records, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// get performs one GET against the API. The endpoint may already carry
// query parameters (some listing endpoints bake in status filters);
// extra parameters are merged in.
func (c *Client) get(ctx context.Context, endpoint string, extra url.Values) (envelope, error) {
	u, err := url.Parse(c.baseURL + "/" + strings.TrimPrefix(endpoint, "/"))
	if err != nil {
		return envelope{}, fmt.Errorf("bad endpoint %q: %w", endpoint, err)
	}
	if len(extra) > 0 {
		query := u.Query()
		for key, values := range extra {
			for _, v := range values {
				query.Add(key, v)
			}
		}
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return envelope{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("api-version", c.apiVersion)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return envelope{}, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.logger.Warn("non-2xx response",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return envelope{}, fmt.Errorf("GET %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return envelope{}, fmt.Errorf("GET %s: decode response: %w", endpoint, err)
	}
	return env, nil
}
