// Package cosmic is a read-only client for the Cosmic bucket REST API.
package cosmic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const DefaultBaseURL = "https://api.cosmicjs.com/v3"

// Config holds configuration for the bucket client
type Config struct {
	BaseURL    string // Optional: defaults to DefaultBaseURL
	BucketSlug string
	ReadKey    string
	HTTPClient *http.Client // Optional: defaults to a client without timeout
}

type Client struct {
	baseURL    string
	bucketSlug string
	readKey    string
	httpClient *http.Client
}

// Query selects objects of one kind. Filters are metadata equality
// matches such as {"metadata.category": "<id>"}.
type Query struct {
	Type    string
	Slug    string
	Filters map[string]string
	Props   []string
	Depth   int
	Limit   int
}

// ListResponse is the collection envelope. Objects stay raw so each
// repository decodes its own kind.
type ListResponse struct {
	Objects []json.RawMessage `json:"objects"`
	Total   int               `json:"total"`
	Limit   int               `json:"limit"`
	Skip    int               `json:"skip"`
}

// SingleResponse is the single-object envelope; Object is nil when nothing matched.
type SingleResponse struct {
	Object json.RawMessage `json:"object"`
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	slog.Info("initializing content client",
		"bucket", cfg.BucketSlug,
		"base_url", baseURL,
	)

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		bucketSlug: cfg.BucketSlug,
		readKey:    cfg.ReadKey,
		httpClient: httpClient,
	}
}

// Find returns every object matching q.
func (c *Client) Find(ctx context.Context, q Query) (*ListResponse, error) {
	var resp ListResponse
	err := c.get(ctx, q, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Objects == nil {
		resp.Objects = []json.RawMessage{}
	}
	return &resp, nil
}

// FindOne returns the first object matching q.
func (c *Client) FindOne(ctx context.Context, q Query) (*SingleResponse, error) {
	q.Limit = 1

	var resp ListResponse
	err := c.get(ctx, q, &resp)
	if err != nil {
		return nil, err
	}

	single := &SingleResponse{}
	if len(resp.Objects) > 0 && !isNull(resp.Objects[0]) {
		single.Object = resp.Objects[0]
	}
	return single, nil
}

func (c *Client) get(ctx context.Context, q Query, out any) error {
	endpoint, err := c.objectsURL(q)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", q.Type, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(resp.StatusCode, body)
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) objectsURL(q Query) (string, error) {
	filter := map[string]string{}
	if q.Type != "" {
		filter["type"] = q.Type
	}
	if q.Slug != "" {
		filter["slug"] = q.Slug
	}
	for key, value := range q.Filters {
		filter[key] = value
	}

	queryJSON, err := json.Marshal(filter)
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}

	params := url.Values{}
	params.Set("query", string(queryJSON))
	params.Set("read_key", c.readKey)
	if len(q.Props) > 0 {
		params.Set("props", strings.Join(q.Props, ","))
	}
	if q.Depth > 0 {
		params.Set("depth", strconv.Itoa(q.Depth))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	return fmt.Sprintf("%s/buckets/%s/objects?%s", c.baseURL, url.PathEscape(c.bucketSlug), params.Encode()), nil
}

func newStatusError(code int, body []byte) *StatusError {
	statusErr := &StatusError{StatusCode: code}

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		statusErr.Message = payload.Message
	}
	return statusErr
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
