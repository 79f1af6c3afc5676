// Package client is the typed HTTP client for the bath journal API. Every
// response is checked against the shared route table before it is returned.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
	"github.com/oksasatya/bath-journal/pkg/contract"
)

// APIError is a non-success answer from the server. Message and Field come
// from the server only for 400s.
type APIError struct {
	Status  int
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%d: %s (%s)", e.Status, e.Message, e.Field)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client

	mu   sync.Mutex
	list []entity.Bath
}

type Option func(*Client)

// WithHTTPClient replaces the default client. Its Jar is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a client for the API served at baseURL (scheme and host, no
// /api suffix). Cookies set by the server are sent back on later calls.
func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListBaths returns every bath, most recent first. The result is cached
// until a mutation made through this client succeeds.
func (c *Client) ListBaths(ctx context.Context) ([]entity.Bath, error) {
	c.mu.Lock()
	cached := c.list
	c.mu.Unlock()
	if cached != nil {
		return cloneList(cached), nil
	}

	v, err := c.call(ctx, contract.ListBaths, nil, nil, nil, "list baths")
	if err != nil {
		return nil, err
	}
	list := v.([]entity.Bath)
	c.mu.Lock()
	c.list = cloneList(list)
	c.mu.Unlock()
	return list, nil
}

// GetBath returns the bath with id, or nil when the server has none.
func (c *Client) GetBath(ctx context.Context, id int64) (*entity.Bath, error) {
	v, err := c.call(ctx, contract.GetBath, idParam(id), nil, nil, "get bath")
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return v.(*entity.Bath), nil
}

// CreateBath validates in locally, then creates the bath. A local
// validation failure is returned as *contract.ValidationError without a
// request being sent.
func (c *Client) CreateBath(ctx context.Context, in contract.CreateBathInput) (*entity.Bath, error) {
	if err := contract.ValidateCreate(in); err != nil {
		return nil, err
	}
	v, err := c.call(ctx, contract.CreateBath, nil, nil, in, "create bath")
	if err != nil {
		return nil, err
	}
	c.InvalidateList()
	return v.(*entity.Bath), nil
}

func (c *Client) UpdateBath(ctx context.Context, id int64, in contract.UpdateBathInput) (*entity.Bath, error) {
	if err := contract.ValidateUpdate(in); err != nil {
		return nil, err
	}
	v, err := c.call(ctx, contract.UpdateBath, idParam(id), nil, in, "update bath")
	if err != nil {
		return nil, err
	}
	c.InvalidateList()
	return v.(*entity.Bath), nil
}

func (c *Client) DeleteBath(ctx context.Context, id int64) error {
	if _, err := c.call(ctx, contract.DeleteBath, idParam(id), nil, nil, "delete bath"); err != nil {
		return err
	}
	c.InvalidateList()
	return nil
}

func (c *Client) Stats(ctx context.Context) (*entity.BathStats, error) {
	v, err := c.call(ctx, contract.BathStats, nil, nil, nil, "load bath stats")
	if err != nil {
		return nil, err
	}
	return v.(*entity.BathStats), nil
}

// SearchBaths returns the baths whose notes match q.
func (c *Client) SearchBaths(ctx context.Context, q string) ([]entity.Bath, error) {
	v, err := c.call(ctx, contract.SearchBaths, nil, url.Values{"q": {q}}, nil, "search baths")
	if err != nil {
		return nil, err
	}
	return v.([]entity.Bath), nil
}

// InvalidateList drops the cached list.
func (c *Client) InvalidateList() {
	c.mu.Lock()
	c.list = nil
	c.mu.Unlock()
}

// call performs route and decodes the answer against the contract. A 400
// body becomes *APIError with the server's message and field. Any other
// failure becomes a generic *APIError ("failed to <op>"), and undeclared
// success statuses become ErrContractViolation.
func (c *Client) call(ctx context.Context, route contract.Route, params map[string]any, query url.Values, in any, op string) (any, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to %s: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + route.URL(params)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, route.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer func() { _ = res.Body.Close() }()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	if _, declared := route.Expects(res.StatusCode); !declared && res.StatusCode >= 400 {
		return nil, &APIError{Status: res.StatusCode, Message: "failed to " + op}
	}
	v, err := contract.DecodeResponse(route, res.StatusCode, raw)
	if err != nil {
		return nil, err
	}
	if eb, ok := v.(*contract.ErrorBody); ok {
		// only validation failures carry the server's message
		if res.StatusCode == http.StatusBadRequest {
			return nil, &APIError{Status: res.StatusCode, Message: eb.Message, Field: eb.Field}
		}
		return nil, &APIError{Status: res.StatusCode, Message: "failed to " + op}
	}
	return v, nil
}

func idParam(id int64) map[string]any {
	return map[string]any{"id": id}
}

func cloneList(list []entity.Bath) []entity.Bath {
	out := make([]entity.Bath, len(list))
	copy(out, list)
	return out
}
