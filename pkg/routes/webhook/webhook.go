// Package webhook receives CMS change notifications and drives the
// rehydrate-then-project pipeline.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/beanmap/drip/pkg/events"
	"github.com/beanmap/drip/pkg/metrics"
	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/projector"
	"github.com/beanmap/drip/pkg/strapi"
	"github.com/beanmap/drip/pkg/tracing"
)

const secretHeader = "x-webhook-secret"

// Rehydrator fetches the full entity for a webhook entry.
type Rehydrator interface {
	FetchEntry(ctx context.Context, model models.Model, documentID string) (json.RawMessage, error)
}

// Handler handles inbound CMS webhooks.
type Handler struct {
	secret     string
	rehydrator Rehydrator
	projector  projector.Projector
	emitter    events.Emitter
	logger     ectologger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(secret string, rehydrator Rehydrator, proj projector.Projector, emitter events.Emitter, logger ectologger.Logger) *Handler {
	return &Handler{
		secret:     secret,
		rehydrator: rehydrator,
		projector:  proj,
		emitter:    emitter,
		logger:     logger,
	}
}

// RegisterRoutes registers the webhook endpoint.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v2/webhook", h.Handle)
}

// Handle processes one webhook delivery. Authentication runs before anything
// else; a delivery that fails it never touches the CMS or the database.
func (h *Handler) Handle(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "webhook.Handler.Handle")
	defer span.End()

	start := time.Now()

	if h.secret == "" || c.Request().Header.Get(secretHeader) != h.secret {
		h.logger.WithContext(ctx).Warn("rejected webhook with bad secret")
		metrics.RecordWebhook("", "", "unauthorized", time.Since(start).Seconds())
		return c.JSON(http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("failed to read webhook body")
		metrics.RecordWebhook("", "", "invalid", time.Since(start).Seconds())
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":    "Invalid webhook payload",
			"received": string(body),
		})
	}

	var payload models.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.WithContext(ctx).WithError(err).Warn("failed to decode webhook payload")
		metrics.RecordWebhook("", "", "invalid", time.Since(start).Seconds())
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":    "Invalid webhook payload",
			"received": string(body),
		})
	}

	if payload.Event == models.EventTriggerTest {
		h.logger.WithContext(ctx).Info("acknowledged trigger test")
		metrics.RecordWebhook("", payload.Event, "ok", time.Since(start).Seconds())
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"event":   models.EventTriggerTest,
		})
	}

	if payload.Event == "" || payload.Model == "" || payload.Entry == nil {
		h.logger.WithContext(ctx).WithFields(map[string]any{
			"event": payload.Event,
			"model": payload.Model,
		}).Warn("incomplete webhook payload")
		metrics.RecordWebhook(payload.Model, payload.Event, "invalid", time.Since(start).Seconds())
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":    "Invalid webhook payload",
			"received": json.RawMessage(body),
		})
	}

	if payload.Entry.DocumentID == "" {
		h.logger.WithContext(ctx).WithFields(map[string]any{
			"event": payload.Event,
			"model": payload.Model,
		}).Warn("webhook entry missing document id")
		metrics.RecordWebhook(payload.Model, payload.Event, "invalid", time.Since(start).Seconds())
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Missing documentId"})
	}

	model := models.Model(payload.Model)
	if !model.IsHandled() {
		h.logger.WithContext(ctx).WithFields(map[string]any{
			"model": payload.Model,
		}).Info("ignored unhandled model")
		metrics.RecordWebhook(payload.Model, payload.Event, "unhandled", time.Since(start).Seconds())
		return c.JSON(http.StatusOK, map[string]any{
			"message": fmt.Sprintf("Unhandled model: %s", payload.Model),
		})
	}

	if err := h.projector.Ping(ctx); err != nil {
		h.logger.WithContext(ctx).WithError(err).Error("projection database unreachable")
		metrics.RecordWebhook(payload.Model, payload.Event, "db_unavailable", time.Since(start).Seconds())
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"error": "database unavailable"})
	}

	documentID := payload.Entry.DocumentID

	if payload.IsDelete() {
		if err := h.projector.Delete(ctx, model, documentID); err != nil {
			h.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"model":       payload.Model,
				"document_id": documentID,
			}).Error("webhook delete failed")
			metrics.RecordWebhook(payload.Model, payload.Event, "error", time.Since(start).Seconds())
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": "Webhook processing failed"})
		}

		h.emitter.EntryDeleted(ctx, model, documentID)
		metrics.RecordWebhook(payload.Model, payload.Event, "ok", time.Since(start).Seconds())
		return c.JSON(http.StatusOK, map[string]any{
			"success":    true,
			"event":      payload.Event,
			"model":      payload.Model,
			"documentId": documentID,
		})
	}

	data, err := h.rehydrator.FetchEntry(ctx, model, documentID)
	if err != nil {
		var upstreamErr *strapi.UpstreamError
		if errors.As(err, &upstreamErr) {
			h.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"model":       payload.Model,
				"document_id": documentID,
			}).Error("failed to rehydrate entry")
			metrics.RecordWebhook(payload.Model, payload.Event, "upstream_error", time.Since(start).Seconds())
			return c.JSON(http.StatusBadGateway, map[string]any{
				"error":      fmt.Sprintf("Failed to fetch full %s from Strapi", payload.Model),
				"documentId": documentID,
			})
		}

		h.logger.WithContext(ctx).WithError(err).Error("unexpected rehydration failure")
		metrics.RecordWebhook(payload.Model, payload.Event, "error", time.Since(start).Seconds())
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "Webhook processing failed"})
	}

	if err := h.projector.Project(ctx, model, data); err != nil {
		h.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"model":       payload.Model,
			"document_id": documentID,
		}).Error("webhook projection failed")
		metrics.RecordWebhook(payload.Model, payload.Event, "error", time.Since(start).Seconds())
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": "Webhook processing failed"})
	}

	h.emitter.EntrySynced(ctx, model, documentID)
	metrics.RecordWebhook(payload.Model, payload.Event, "ok", time.Since(start).Seconds())
	return c.JSON(http.StatusOK, map[string]any{
		"success":    true,
		"event":      payload.Event,
		"model":      payload.Model,
		"documentId": documentID,
	})
}
