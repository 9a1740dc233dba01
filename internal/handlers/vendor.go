package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ellas-cupcakery/storefront/internal/service"
)

// VendorService defines the dashboard authentication operations
type VendorService interface {
	Login(ctx context.Context, accessCode string) (string, error)
}

type VendorHandler struct {
	vendorService VendorService
	logger        *zap.Logger
}

func NewVendorHandler(vendorService VendorService, logger *zap.Logger) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
		logger:        logger,
	}
}

type vendorLoginRequest struct {
	AccessCode string `json:"access_code"`
}

type vendorLoginResponse struct {
	Token string `json:"token"`
}

// Login serves POST /api/vendor/login
func (h *VendorHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req vendorLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	token, err := h.vendorService.Login(r.Context(), req.AccessCode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAccessCode) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if errors.Is(err, service.ErrVendorAccessDisabled) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		h.logger.Error("vendor login failed", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(vendorLoginResponse{Token: token}); err != nil {
		h.logger.Error("failed to encode login response", zap.Error(err))
	}
}

type vendorSessionResponse struct {
	Subject string `json:"subject"`
}

// Session serves GET /api/vendor/session, confirming a valid session token
func (h *VendorHandler) Session(w http.ResponseWriter, r *http.Request) {
	subject, ok := GetSubject(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(vendorSessionResponse{Subject: subject}); err != nil {
		h.logger.Error("failed to encode session response", zap.Error(err))
	}
}
