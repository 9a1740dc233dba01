package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ellas-cupcakery/storefront/internal/domain"
	"github.com/ellas-cupcakery/storefront/internal/service"
)

// RecordService defines the record store operations the data API exposes
type RecordService interface {
	GetCollection(ctx context.Context, collection string) (any, error)
	GetSettings(ctx context.Context) (domain.SiteSettings, error)
	UpdateRecord(ctx context.Context, collection, itemID string, updates map[string]any) error
	AddRecord(ctx context.Context, collection string, item json.RawMessage) (string, error)
	DeleteRecord(ctx context.Context, collection, itemID string) error
}

type DataHandler struct {
	records RecordService
	logger  *zap.Logger
}

func NewDataHandler(records RecordService, logger *zap.Logger) *DataHandler {
	return &DataHandler{
		records: records,
		logger:  logger,
	}
}

type updateRequest struct {
	Collection string         `json:"collection"`
	ItemID     string         `json:"item_id"`
	Updates    map[string]any `json:"updates"`
}

type addRequest struct {
	Collection string          `json:"collection"`
	Item       json.RawMessage `json:"item"`
}

type deleteRequest struct {
	Collection string `json:"collection"`
	ItemID     string `json:"item_id"`
}

type mutationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	ItemID  string `json:"item_id,omitempty"`
}

// GetCollection serves GET /api/data/{collection}
func (h *DataHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	records, err := h.records.GetCollection(r.Context(), collection)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCollection) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load collection",
			zap.String("collection", collection),
			zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, records)
}

// GetSettings serves GET /api/site/settings
func (h *DataHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.records.GetSettings(r.Context())
	if err != nil {
		h.logger.Error("failed to load settings", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, settings)
}

// Update serves POST /api/data/update
func (h *DataHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.records.UpdateRecord(r.Context(), req.Collection, req.ItemID, req.Updates); err != nil {
		h.writeMutationError(w, req.Collection, err)
		return
	}

	h.writeJSON(w, http.StatusOK, mutationResponse{Status: "success", ItemID: req.ItemID})
}

// Add serves POST /api/data/add
func (h *DataHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	itemID, err := h.records.AddRecord(r.Context(), req.Collection, req.Item)
	if err != nil {
		h.writeMutationError(w, req.Collection, err)
		return
	}

	h.writeJSON(w, http.StatusOK, mutationResponse{Status: "success", ItemID: itemID})
}

// Delete serves POST /api/data/delete
func (h *DataHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := h.records.DeleteRecord(r.Context(), req.Collection, req.ItemID); err != nil {
		h.writeMutationError(w, req.Collection, err)
		return
	}

	h.writeJSON(w, http.StatusOK, mutationResponse{Status: "success", ItemID: req.ItemID})
}

// writeMutationError maps service sentinels onto HTTP statuses. The body
// always carries the error envelope clients check.
func (h *DataHandler) writeMutationError(w http.ResponseWriter, collection string, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownCollection):
		h.writeError(w, http.StatusNotFound, "unknown collection")
	case errors.Is(err, service.ErrRecordNotFound):
		h.writeError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, service.ErrRecordExists):
		h.writeError(w, http.StatusConflict, "record already exists")
	case errors.Is(err, service.ErrCollectionReadOnly):
		h.writeError(w, http.StatusMethodNotAllowed, "operation not supported for collection")
	case errors.Is(err, service.ErrInvalidPayload),
		errors.Is(err, service.ErrNoUpdatableField),
		errors.Is(err, service.ErrUnknownStatus),
		errors.Is(err, service.ErrUnknownPaymentStatus):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("mutation failed",
			zap.String("collection", collection),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *DataHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *DataHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, mutationResponse{Status: "error", Message: message})
}
