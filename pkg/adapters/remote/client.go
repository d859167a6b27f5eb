// Package remote implements ports.TaxonomyClient against another taxaquery service
// over HTTP (see the /v1/taxa routes in package http).
//
// Transport failures and 5xx answers are retried with exponential backoff; "unknown
// taxon" and "no parent" answers are permanent and map back to the domain sentinels.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/taxaquery/internal/logging"
	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultTimeout       = 10 * time.Second
	DefaultRetries       = 3
	DefaultRetryInterval = 200 * time.Millisecond
)

// Client implements ports.TaxonomyClient over HTTP.
type Client struct {
	baseURL       *url.URL
	http          *http.Client
	retries       uint64
	retryInterval time.Duration
	logger        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (its Timeout is kept).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.http.Timeout = d
	}
}

// WithRetries sets how many times a failed attempt is retried.
func WithRetries(n uint64) Option {
	return func(cl *Client) {
		cl.retries = n
	}
}

// WithRetryInterval sets the initial backoff interval.
func WithRetryInterval(d time.Duration) Option {
	return func(cl *Client) {
		cl.retryInterval = d
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// New creates a client for the service at baseURL (e.g. "http://taxa.internal:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:       u,
		http:          &http.Client{Timeout: DefaultTimeout},
		retries:       DefaultRetries,
		retryInterval: DefaultRetryInterval,
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type taxaResponse struct {
	Taxon string   `json:"taxon"`
	Taxa  []string `json:"taxa"`
}

type parentResponse struct {
	Taxon  string `json:"taxon"`
	Parent string `json:"parent"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Children returns the children of name.
func (c *Client) Children(ctx context.Context, name string) ([]string, error) {
	var resp taxaResponse
	if err := c.get(ctx, name, "children", &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Taxa), nil
}

// Parent returns the parent of name.
func (c *Client) Parent(ctx context.Context, name string) (string, error) {
	var resp parentResponse
	if err := c.get(ctx, name, "parent", &resp); err != nil {
		return "", err
	}
	return resp.Parent, nil
}

// Siblings returns the siblings of name.
func (c *Client) Siblings(ctx context.Context, name string) ([]string, error) {
	var resp taxaResponse
	if err := c.get(ctx, name, "siblings", &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Taxa), nil
}

func (c *Client) endpoint(name, op string) string {
	return c.baseURL.String() + "/v1/taxa/" + url.PathEscape(name) + "/" + op
}

func (c *Client) get(ctx context.Context, name, op string, out any) error {
	endpoint := c.endpoint(name, op)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.retries), ctx)

	attempt := 0
	operation := func() error {
		attempt++
		err := c.do(ctx, endpoint, name, out)
		if err != nil && !isPermanent(err) {
			c.logger.Debug("taxonomy request failed", "op", op, "taxon", name, "attempt", attempt, "err", err)
		}
		return err
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("remote %s: %w", op, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint, name string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	case resp.StatusCode >= 500:
		return fmt.Errorf("server error: %s", statusMessage(resp.StatusCode, body))
	}

	var e errorResponse
	_ = json.Unmarshal(body, &e)
	switch e.Code {
	case domain.KindUnknownTaxon.String():
		return backoff.Permanent(domain.UnknownTaxon(name))
	case domain.KindNoParent.String():
		return backoff.Permanent(domain.NoParent(name))
	}
	return backoff.Permanent(fmt.Errorf("request rejected: %s", statusMessage(resp.StatusCode, body)))
}

func isPermanent(err error) bool {
	var perm *backoff.PermanentError
	return errors.As(err, &perm)
}

func statusMessage(code int, body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return fmt.Sprintf("%d %s", code, e.Error)
	}
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
