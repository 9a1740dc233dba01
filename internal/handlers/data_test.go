package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ellas-cupcakery/storefront/internal/domain"
	"github.com/ellas-cupcakery/storefront/internal/service"
)

// recordServiceMock mocks the RecordService interface
type recordServiceMock struct {
	mock.Mock
}

func (m *recordServiceMock) GetCollection(ctx context.Context, collection string) (any, error) {
	args := m.Called(ctx, collection)
	return args.Get(0), args.Error(1)
}

func (m *recordServiceMock) GetSettings(ctx context.Context) (domain.SiteSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.SiteSettings), args.Error(1)
}

func (m *recordServiceMock) UpdateRecord(ctx context.Context, collection, itemID string, updates map[string]any) error {
	args := m.Called(ctx, collection, itemID, updates)
	return args.Error(0)
}

func (m *recordServiceMock) AddRecord(ctx context.Context, collection string, item json.RawMessage) (string, error) {
	args := m.Called(ctx, collection, item)
	return args.String(0), args.Error(1)
}

func (m *recordServiceMock) DeleteRecord(ctx context.Context, collection, itemID string) error {
	args := m.Called(ctx, collection, itemID)
	return args.Error(0)
}

func newDataRouter(records RecordService) *chi.Mux {
	h := NewDataHandler(records, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/api/data/{collection}", h.GetCollection)
	r.Get("/api/site/settings", h.GetSettings)
	r.Post("/api/data/update", h.Update)
	r.Post("/api/data/add", h.Add)
	r.Post("/api/data/delete", h.Delete)
	return r
}

func TestDataHandler_GetCollection(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		records := &recordServiceMock{}
		records.On("GetCollection", mock.Anything, "orders").Return(map[string]domain.Order{
			"O-1": {ID: "O-1", Status: domain.StatusProcessing, PaymentStatus: domain.PaymentPaid},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/data/orders", nil)
		rec := httptest.NewRecorder()
		newDataRouter(records).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var payload map[string]domain.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, domain.StatusProcessing, payload["O-1"].Status)
	})

	t.Run("Unknown collection", func(t *testing.T) {
		records := &recordServiceMock{}
		records.On("GetCollection", mock.Anything, "secrets").Return(nil, service.ErrUnknownCollection).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/data/secrets", nil)
		rec := httptest.NewRecorder()
		newDataRouter(records).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDataHandler_Update(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		records := &recordServiceMock{}
		records.On("UpdateRecord", mock.Anything, "orders", "O-1", map[string]any{"status": "Completed"}).
			Return(nil).Once()

		body, _ := json.Marshal(map[string]any{
			"collection": "orders",
			"item_id":    "O-1",
			"updates":    map[string]any{"status": "Completed"},
		})

		req := httptest.NewRequest(http.MethodPost, "/api/data/update", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		newDataRouter(records).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp["status"])
	})

	t.Run("Record not found carries the error envelope", func(t *testing.T) {
		records := &recordServiceMock{}
		records.On("UpdateRecord", mock.Anything, "orders", "O-missing", mock.Anything).
			Return(service.ErrRecordNotFound).Once()

		body, _ := json.Marshal(map[string]any{
			"collection": "orders",
			"item_id":    "O-missing",
			"updates":    map[string]any{"status": "Completed"},
		})

		req := httptest.NewRequest(http.MethodPost, "/api/data/update", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		newDataRouter(records).ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "error", resp["status"])
	})

	t.Run("Malformed body", func(t *testing.T) {
		records := &recordServiceMock{}

		req := httptest.NewRequest(http.MethodPost, "/api/data/update", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		newDataRouter(records).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDataHandler_Add(t *testing.T) {
	records := &recordServiceMock{}
	records.On("AddRecord", mock.Anything, "orders", mock.Anything).Return("O-ABC12345", nil).Once()

	body, _ := json.Marshal(map[string]any{
		"collection": "orders",
		"item":       map[string]any{"customer_id": "C-1", "total": 250},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/data/add", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	newDataRouter(records).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "O-ABC12345", resp["item_id"])
}

func TestDataHandler_Delete(t *testing.T) {
	records := &recordServiceMock{}
	records.On("DeleteRecord", mock.Anything, "orders", "O-1").Return(service.ErrCollectionReadOnly).Once()

	body, _ := json.Marshal(map[string]any{"collection": "orders", "item_id": "O-1"})

	req := httptest.NewRequest(http.MethodPost, "/api/data/delete", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	newDataRouter(records).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDataHandler_GetSettings(t *testing.T) {
	records := &recordServiceMock{}
	records.On("GetSettings", mock.Anything).Return(domain.SiteSettings{"banner_text": "Hello"}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/site/settings", nil)
	rec := httptest.NewRecorder()
	newDataRouter(records).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var settings domain.SiteSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, "Hello", settings["banner_text"])
}
