// Package firebase provides a client for a realtime hierarchical
// database reached over REST. Records live in a JSON tree addressed by
// slash-delimited paths of the form {tenant}/{collection}[/{key}]; the
// store hands out generated push keys which are treated as the
// canonical entity IDs.
//
// The client exposes exactly the six primitives the back office
// consumes: create-with-generated-key, set, merge patch, get, ordered
// query, and delete. No transactions, no listeners.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/showroomhq/backoffice-go/internal/infra/observability"
	"github.com/showroomhq/backoffice-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("firebase")

// Client wraps HTTP calls to the realtime database REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewClient creates a database client. authToken may be empty for
// open development databases.
func NewClient(httpClient *http.Client, baseURL, authToken string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		authToken:  authToken,
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
	}
}

// doRequest executes one REST call against the tree store. The path is
// the slash-delimited tree path without the .json suffix. A JSON body
// of "null" means the addressed node is absent.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, err
	}
	defer c.bulkhead.Release()

	if query == nil {
		query = url.Values{}
	}
	if c.authToken != "" {
		query.Set("auth", c.authToken)
	}

	u := fmt.Sprintf("%s/%s.json", c.baseURL, strings.Trim(path, "/"))
	if enc := query.Encode(); enc != "" {
		u += "?" + enc
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode payload: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		c.logger.Error("firebase: failed to create request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("firebase: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("firebase: failed to read response body",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("firebase: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(data)),
		)
		return nil, fmt.Errorf("store returned status %d: %s", resp.StatusCode, string(data))
	}

	c.logger.Debug("firebase: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	return data, nil
}

// execute runs fn inside the circuit breaker and retry policy.
func (c *Client) execute(ctx context.Context, fn func() error) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, fn)
	})
	return err
}

// pushResponse is the store's answer to a create-with-generated-key.
type pushResponse struct {
	Name string `json:"name"`
}

// Push creates a child under path with a store-generated key and
// returns that key.
func (c *Client) Push(ctx context.Context, path string, v any) (string, error) {
	ctx, span := tracer.Start(ctx, "Firebase.Push")
	defer span.End()
	span.SetAttributes(attribute.String("db.path", path))

	var key string
	err := c.execute(ctx, func() error {
		body, err := c.doRequest(ctx, http.MethodPost, path, nil, v)
		if err != nil {
			return err
		}
		var pr pushResponse
		if err := json.Unmarshal(body, &pr); err != nil {
			return fmt.Errorf("failed to decode push response: %w", err)
		}
		if pr.Name == "" {
			return fmt.Errorf("store returned empty key for push to %s", path)
		}
		key = pr.Name
		return nil
	})
	return key, err
}

// Set writes v at path, replacing whatever was there.
func (c *Client) Set(ctx context.Context, path string, v any) error {
	ctx, span := tracer.Start(ctx, "Firebase.Set")
	defer span.End()
	span.SetAttributes(attribute.String("db.path", path))

	return c.execute(ctx, func() error {
		_, err := c.doRequest(ctx, http.MethodPut, path, nil, v)
		return err
	})
}

// Patch merges fields into the node at path. Absent fields are left
// untouched; a nil field value deletes that child.
func (c *Client) Patch(ctx context.Context, path string, fields map[string]any) error {
	ctx, span := tracer.Start(ctx, "Firebase.Patch")
	defer span.End()
	span.SetAttributes(attribute.String("db.path", path))

	return c.execute(ctx, func() error {
		_, err := c.doRequest(ctx, http.MethodPatch, path, nil, fields)
		return err
	})
}

// Get reads the node at path into out. Returns false when the node is
// absent (the store answers the literal null).
func (c *Client) Get(ctx context.Context, path string, out any) (bool, error) {
	ctx, span := tracer.Start(ctx, "Firebase.Get")
	defer span.End()
	span.SetAttributes(attribute.String("db.path", path))

	var found bool
	err := c.execute(ctx, func() error {
		body, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
		if err != nil {
			return err
		}
		if isNull(body) {
			found = false
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode %s: %w", path, err)
		}
		found = true
		return nil
	})
	return found, err
}

// Query reads the children of path ordered by a child field, optionally
// restricted to an exact value. Results decode into out the same way
// Get does. Returns false when nothing matched.
func (c *Client) Query(ctx context.Context, path, orderBy string, equalTo any, out any) (bool, error) {
	ctx, span := tracer.Start(ctx, "Firebase.Query")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.path", path),
		attribute.String("db.order_by", orderBy),
	)

	query := url.Values{}
	// The store requires the orderBy value to be a JSON string.
	query.Set("orderBy", fmt.Sprintf("%q", orderBy))
	if equalTo != nil {
		val, err := json.Marshal(equalTo)
		if err != nil {
			return false, fmt.Errorf("failed to encode equalTo: %w", err)
		}
		query.Set("equalTo", string(val))
	}

	var found bool
	err := c.execute(ctx, func() error {
		body, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
		if err != nil {
			return err
		}
		if isNull(body) || string(bytes.TrimSpace(body)) == "{}" {
			found = false
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode query on %s: %w", path, err)
		}
		found = true
		return nil
	})
	return found, err
}

// Delete removes the node at path. Deleting an absent node succeeds.
func (c *Client) Delete(ctx context.Context, path string) error {
	ctx, span := tracer.Start(ctx, "Firebase.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("db.path", path))

	return c.execute(ctx, func() error {
		_, err := c.doRequest(ctx, http.MethodDelete, path, nil, nil)
		return err
	})
}

func isNull(body []byte) bool {
	return len(bytes.TrimSpace(body)) == 0 || string(bytes.TrimSpace(body)) == "null"
}
