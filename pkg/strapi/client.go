// Package strapi fetches full entities from the source of truth CMS. Inbound
// webhook payloads only carry the entry identity, so every non-delete event
// is rehydrated here before it can be projected.
package strapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/beanmap/drip/pkg/httpclient"
	"github.com/beanmap/drip/pkg/metrics"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/tracing"
)

// UpstreamError reports a failed rehydration fetch. The caller must abort the
// projection write; a partial or stale record is never written.
type UpstreamError struct {
	Model      models.Model
	DocumentID string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("strapi: fetch %s/%s: %v", e.Model, e.DocumentID, e.Err)
	}
	return fmt.Sprintf("strapi: fetch %s/%s: status %d", e.Model, e.DocumentID, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Config holds the CMS connection settings.
type Config struct {
	BaseURL string
	Token   string
}

// Client is the entry rehydrator.
type Client struct {
	http    *httpclient.Client
	baseURL string
	token   string
	routes  Routes
	logger  ectologger.Logger
}

// NewClient creates a rehydration client with an explicit route table.
func NewClient(cfg Config, routes Routes, http *httpclient.Client, logger ectologger.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		routes:  routes,
		logger:  logger,
	}
}

// FetchEntry fetches the complete entity with its relation graph and returns
// the unwrapped entity payload.
func (c *Client) FetchEntry(ctx context.Context, model models.Model, documentID string) (json.RawMessage, error) {
	ctx, span := tracing.StartSpan(ctx, "strapi.Client.FetchEntry")
	defer span.End()

	start := time.Now()
	status := "error"
	defer func() {
		metrics.RecordRehydration(string(model), status, time.Since(start).Seconds())
	}()

	route, ok := c.routes[model]
	if !ok {
		return nil, fmt.Errorf("strapi: no route for model %q", model)
	}

	url := fmt.Sprintf("%s/api/%s/%s", c.baseURL, route.Collection, documentID)
	if route.Populate != "" {
		url += "?" + route.Populate
	}

	headers := map[string]string{}
	if c.token != "" {
		headers["Authorization"] = "Bearer " + c.token
	}

	resp, err := c.http.Get(ctx, url, headers)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"model":       model,
			"document_id": documentID,
		}).Error("failed to fetch entry from strapi")
		return nil, &UpstreamError{Model: model, DocumentID: documentID, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.WithContext(ctx).WithFields(map[string]any{
			"model":       model,
			"document_id": documentID,
			"status":      resp.StatusCode,
		}).Error("strapi returned non-2xx for entry fetch")
		return nil, &UpstreamError{Model: model, DocumentID: documentID, StatusCode: resp.StatusCode}
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, &UpstreamError{Model: model, DocumentID: documentID, Err: fmt.Errorf("decode envelope: %w", err)}
	}

	data := strings.TrimSpace(string(envelope.Data))
	if data == "" || data == "null" {
		return nil, &UpstreamError{Model: model, DocumentID: documentID, Err: fmt.Errorf("empty data payload")}
	}

	status = "success"
	return envelope.Data, nil
}
