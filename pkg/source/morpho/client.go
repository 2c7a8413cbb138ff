// Package morpho reads vault history and state from the Morpho GraphQL API.
package morpho

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

// DefaultSiteURL is the public Morpho app, used for vault links and embeds.
const DefaultSiteURL = "https://app.morpho.org/"

const (
	defaultBaseURL          = "https://api.morpho.org/graphql"
	defaultHTTPTimeout      = 30 * time.Second
	defaultMaxRetries       = 2
	defaultRetryBackoffBase = 200 * time.Millisecond
)

// GraphQLError is a GraphQL-level failure reported in the response payload.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "morpho: graphql errors: " + strings.Join(e.Messages, "; ")
}

// Client wraps access to the Morpho GraphQL endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	interval   string
}

// Option configures a new Client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL overrides the default GraphQL endpoint URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithMaxRetries adjusts the retry budget.
func WithMaxRetries(max int) Option {
	return func(c *Client) {
		if max >= 0 {
			c.maxRetries = max
		}
	}
}

// WithInterval sets the timeseries sampling interval (e.g. HOUR, DAY).
func WithInterval(interval string) Option {
	return func(c *Client) {
		c.interval = strings.ToUpper(strings.TrimSpace(interval))
	}
}

// NewClient constructs a Morpho API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// query posts a GraphQL document and decodes its data field into result.
// Transport failures and non-2xx answers are retried; GraphQL errors are not.
func (c *Client) query(ctx context.Context, document string, variables map[string]any, result any) error {
	payload, err := json.Marshal(graphQLRequest{Query: document, Variables: variables})
	if err != nil {
		return fmt.Errorf("morpho: encode request: %w", err)
	}
	var lastErr error
	backoff := defaultRetryBackoffBase
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		body, err := c.post(ctx, payload)
		if err == nil {
			return decode(body, result)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
		if attempt < c.maxRetries {
			logx.WithContext(ctx).Infof("morpho: retrying request attempt=%d err=%v", attempt+1, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}
	}
	return lastErr
}

func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("morpho: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("morpho: request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("morpho: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("morpho: http status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func decode(body []byte, result any) error {
	var envelope graphQLResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("morpho: decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		gqlErr := &GraphQLError{}
		for _, e := range envelope.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
		}
		return gqlErr
	}
	if result == nil || len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return fmt.Errorf("morpho: decode data: %w", err)
	}
	return nil
}
