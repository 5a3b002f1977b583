// Package submit delivers finished recipes to the remote collection endpoint.
//
// A submission is one best-effort POST: no retry, no authentication, no
// timeout beyond what the caller's context carries. Outcomes go to the log and
// the trace, never back to the form.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/idilsaglam/recipes/internal/logging"
	"github.com/idilsaglam/recipes/internal/model"
	"github.com/idilsaglam/recipes/internal/telemetry"
)

const maxResponseBody = 1 << 20

// Submitter sends one recipe.
type Submitter interface {
	Submit(ctx context.Context, r model.Recipe) (*Response, error)
}

// Response is what the endpoint returned. Body is whatever JSON came back,
// or the raw text when it was not JSON.
type Response struct {
	Status    int
	RequestID string
	Body      any
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint returned %d %s", e.Status, http.StatusText(e.Status))
}

type Client struct {
	endpoint string
	http     *http.Client
	log      *slog.Logger
	tracer   trace.Tracer
}

var _ Submitter = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }
func WithLogger(l *slog.Logger) Option     { return func(c *Client) { c.log = l } }
func WithTracer(t trace.Tracer) Option     { return func(c *Client) { c.tracer = t } }

// New returns a client posting to endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     http.DefaultClient,
		log:      logging.Discard(),
		tracer:   telemetry.Tracer(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit POSTs r as JSON. r is sent as given; normalising is the form's job.
func (c *Client) Submit(ctx context.Context, r model.Recipe) (*Response, error) {
	reqID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "recipes.submit",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodPost),
			attribute.String("url.full", c.endpoint),
			attribute.String("recipe.category", string(r.Category)),
			attribute.String("request.id", reqID),
		),
	)
	defer span.End()

	resp, err := c.do(ctx, reqID, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Warn("submit failed", "request_id", reqID, "endpoint", c.endpoint, "err", err)
		return resp, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.Status))
	c.log.Debug("submit ok", "request_id", reqID, "status", resp.Status, "response", resp.Body)
	return resp, nil
}

func (c *Client) do(ctx context.Context, reqID string, r model.Recipe) (*Response, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode recipe: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", c.endpoint, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	out := &Response{Status: res.StatusCode, RequestID: reqID, Body: decodeBody(raw)}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return out, &StatusError{Status: res.StatusCode, Body: string(raw)}
	}
	return out, nil
}

func decodeBody(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
