package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ellas-cupcakery/storefront/internal/service"
)

type vendorServiceMock struct {
	mock.Mock
}

func (m *vendorServiceMock) Login(ctx context.Context, accessCode string) (string, error) {
	args := m.Called(ctx, accessCode)
	return args.String(0), args.Error(1)
}

func TestVendorHandler_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &vendorServiceMock{}
		svc.On("Login", mock.Anything, "cupcake123").Return("a.b.c", nil).Once()

		h := NewVendorHandler(svc, zap.NewNop())
		body, _ := json.Marshal(map[string]string{"access_code": "cupcake123"})

		req := httptest.NewRequest(http.MethodPost, "/api/vendor/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "a.b.c", resp["token"])
	})

	t.Run("Invalid code", func(t *testing.T) {
		svc := &vendorServiceMock{}
		svc.On("Login", mock.Anything, "wrong").Return("", service.ErrInvalidAccessCode).Once()

		h := NewVendorHandler(svc, zap.NewNop())
		body, _ := json.Marshal(map[string]string{"access_code": "wrong"})

		req := httptest.NewRequest(http.MethodPost, "/api/vendor/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Access disabled", func(t *testing.T) {
		svc := &vendorServiceMock{}
		svc.On("Login", mock.Anything, "anything").Return("", service.ErrVendorAccessDisabled).Once()

		h := NewVendorHandler(svc, zap.NewNop())
		body, _ := json.Marshal(map[string]string{"access_code": "anything"})

		req := httptest.NewRequest(http.MethodPost, "/api/vendor/login", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Malformed body", func(t *testing.T) {
		h := NewVendorHandler(&vendorServiceMock{}, zap.NewNop())

		req := httptest.NewRequest(http.MethodPost, "/api/vendor/login", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
