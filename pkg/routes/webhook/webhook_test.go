package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beanmap/drip/pkg/models"
	"github.com/beanmap/drip/pkg/routes/webhook"
	"github.com/beanmap/drip/pkg/strapi"
)

const testSecret = "s3cret"

type fakeRehydrator struct {
	data  json.RawMessage
	err   error
	calls int
}

func (f *fakeRehydrator) FetchEntry(ctx context.Context, model models.Model, documentID string) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeProjector struct {
	pingErr    error
	projectErr error
	deleteErr  error

	projected []models.Model
	deleted   []string
}

func (f *fakeProjector) Project(ctx context.Context, model models.Model, data json.RawMessage) error {
	if f.projectErr != nil {
		return f.projectErr
	}
	f.projected = append(f.projected, model)
	return nil
}

func (f *fakeProjector) Delete(ctx context.Context, model models.Model, documentID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, documentID)
	return nil
}

func (f *fakeProjector) Ping(ctx context.Context) error {
	return f.pingErr
}

type fakeEmitter struct {
	synced  []string
	deleted []string
}

func (f *fakeEmitter) EntrySynced(ctx context.Context, model models.Model, documentID string) {
	f.synced = append(f.synced, documentID)
}

func (f *fakeEmitter) EntryDeleted(ctx context.Context, model models.Model, documentID string) {
	f.deleted = append(f.deleted, documentID)
}

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
}

type handlerDeps struct {
	rehydrator *fakeRehydrator
	projector  *fakeProjector
	emitter    *fakeEmitter
}

func deliver(t *testing.T, secret string, deps handlerDeps, body string, withSecret bool) *httptest.ResponseRecorder {
	t.Helper()

	if deps.rehydrator == nil {
		deps.rehydrator = &fakeRehydrator{data: json.RawMessage(`{"documentId":"doc-1","name":"x"}`)}
	}
	if deps.projector == nil {
		deps.projector = &fakeProjector{}
	}
	if deps.emitter == nil {
		deps.emitter = &fakeEmitter{}
	}

	h := webhook.NewHandler(secret, deps.rehydrator, deps.projector, deps.emitter, noopLogger())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v2/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if withSecret {
		req.Header.Set("x-webhook-secret", secret)
	}
	rec := httptest.NewRecorder()

	require.NoError(t, h.Handle(e.NewContext(req, rec)))
	return rec
}

func TestHandleUnauthorized(t *testing.T) {
	t.Run("missing secret header", func(t *testing.T) {
		rec := deliver(t, testSecret, handlerDeps{}, `{"event":"entry.update"}`, false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
	})

	t.Run("wrong secret", func(t *testing.T) {
		h := webhook.NewHandler(testSecret, &fakeRehydrator{}, &fakeProjector{}, &fakeEmitter{}, noopLogger())

		e := echo.New()
		req := httptest.NewRequest(http.MethodPost, "/api/v2/webhook", strings.NewReader(`{}`))
		req.Header.Set("x-webhook-secret", "wrong")
		rec := httptest.NewRecorder()

		require.NoError(t, h.Handle(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("secret not configured rejects everything", func(t *testing.T) {
		rec := deliver(t, "", handlerDeps{}, `{"event":"entry.update"}`, true)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandleTriggerTest(t *testing.T) {
	rehydrator := &fakeRehydrator{}
	proj := &fakeProjector{pingErr: errors.New("db down, must not matter")}

	rec := deliver(t, testSecret, handlerDeps{rehydrator: rehydrator, projector: proj}, `{"event":"trigger-test"}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"event":"trigger-test"}`, rec.Body.String())
	assert.Zero(t, rehydrator.calls)
	assert.Empty(t, proj.projected)
}

func TestHandleInvalidPayload(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		rec := deliver(t, testSecret, handlerDeps{}, `{not json`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Invalid webhook payload", body["error"])
		assert.Equal(t, `{not json`, body["received"])
	})

	t.Run("missing event", func(t *testing.T) {
		rec := deliver(t, testSecret, handlerDeps{}, `{"model":"shop","entry":{"documentId":"doc-1"}}`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid webhook payload")
	})

	t.Run("missing model", func(t *testing.T) {
		rec := deliver(t, testSecret, handlerDeps{}, `{"event":"entry.update","entry":{"documentId":"doc-1"}}`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid webhook payload")
	})

	t.Run("missing entry", func(t *testing.T) {
		rec := deliver(t, testSecret, handlerDeps{}, `{"event":"entry.update","model":"shop"}`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid webhook payload")
	})

	t.Run("missing document id", func(t *testing.T) {
		rec := deliver(t, testSecret, handlerDeps{}, `{"event":"entry.update","model":"shop","entry":{"id":5}}`, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Missing documentId"}`, rec.Body.String())
	})
}

func TestHandleUnhandledModel(t *testing.T) {
	proj := &fakeProjector{}
	rec := deliver(t, testSecret, handlerDeps{projector: proj},
		`{"event":"entry.update","model":"article","entry":{"documentId":"doc-1"}}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Unhandled model: article"}`, rec.Body.String())
	assert.Empty(t, proj.projected)
}

func TestHandleDatabaseUnavailable(t *testing.T) {
	proj := &fakeProjector{pingErr: errors.New("connection refused")}
	rehydrator := &fakeRehydrator{}

	rec := deliver(t, testSecret, handlerDeps{projector: proj, rehydrator: rehydrator},
		`{"event":"entry.update","model":"shop","entry":{"documentId":"doc-1"}}`, true)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"database unavailable"}`, rec.Body.String())
	assert.Zero(t, rehydrator.calls, "must not fetch when the database is down")
}

func TestHandleUpstreamFailure(t *testing.T) {
	rehydrator := &fakeRehydrator{err: &strapi.UpstreamError{
		Model:      models.ModelBrand,
		DocumentID: "doc-1",
		StatusCode: http.StatusBadGateway,
	}}

	rec := deliver(t, testSecret, handlerDeps{rehydrator: rehydrator},
		`{"event":"entry.update","model":"brand","entry":{"documentId":"doc-1"}}`, true)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch full brand from Strapi","documentId":"doc-1"}`, rec.Body.String())
}

func TestHandleProjectionFailure(t *testing.T) {
	proj := &fakeProjector{projectErr: errors.New("constraint violation")}

	rec := deliver(t, testSecret, handlerDeps{projector: proj},
		`{"event":"entry.update","model":"shop","entry":{"documentId":"doc-1"}}`, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Webhook processing failed"}`, rec.Body.String())
}

func TestHandleUpsert(t *testing.T) {
	proj := &fakeProjector{}
	emitter := &fakeEmitter{}
	rehydrator := &fakeRehydrator{data: json.RawMessage(`{"documentId":"doc-1","name":"Bonanza"}`)}

	rec := deliver(t, testSecret, handlerDeps{projector: proj, emitter: emitter, rehydrator: rehydrator},
		`{"event":"entry.publish","model":"shop","entry":{"id":1,"documentId":"doc-1"}}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"event":"entry.publish","model":"shop","documentId":"doc-1"}`, rec.Body.String())
	assert.Equal(t, []models.Model{models.ModelShop}, proj.projected)
	assert.Equal(t, []string{"doc-1"}, emitter.synced)
	assert.Equal(t, 1, rehydrator.calls)
}

func TestHandleDelete(t *testing.T) {
	proj := &fakeProjector{}
	emitter := &fakeEmitter{}
	rehydrator := &fakeRehydrator{}

	rec := deliver(t, testSecret, handlerDeps{projector: proj, emitter: emitter, rehydrator: rehydrator},
		`{"event":"entry.delete","model":"country","entry":{"documentId":"country-doc-1"}}`, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"event":"entry.delete","model":"country","documentId":"country-doc-1"}`, rec.Body.String())
	assert.Equal(t, []string{"country-doc-1"}, proj.deleted)
	assert.Equal(t, []string{"country-doc-1"}, emitter.deleted)
	assert.Zero(t, rehydrator.calls, "deletes never fetch from the CMS")
}

func TestHandleDeleteFailure(t *testing.T) {
	proj := &fakeProjector{deleteErr: errors.New("deadlock")}

	rec := deliver(t, testSecret, handlerDeps{projector: proj},
		`{"event":"entry.delete","model":"shop","entry":{"documentId":"doc-1"}}`, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Webhook processing failed"}`, rec.Body.String())
}
