package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/asspharma/backend/internal/domain/shared"
	"github.com/asspharma/backend/internal/interfaces/http/dto"
	"github.com/asspharma/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleErrorDomainError(t *testing.T) {
	h := NewBaseHandler(nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found maps to 404",
			err:        shared.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "insufficient stock maps to 422",
			err:        shared.ErrInsufficientStock,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INSUFFICIENT_STOCK",
		},
		{
			name:       "concurrency conflict maps to 409",
			err:        shared.ErrConcurrencyConflict,
			wantStatus: http.StatusConflict,
			wantCode:   "CONCURRENCY_CONFLICT",
		},
		{
			name:       "tenant scope missing maps to 401",
			err:        shared.ErrTenantScopeMissing,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "TENANT_SCOPE_MISSING",
		},
		{
			name:       "session already open maps to 422",
			err:        shared.ErrSessionAlreadyOpen,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "SESSION_ALREADY_OPEN",
		},
		{
			name:       "barcode conflict maps to 409",
			err:        shared.NewDomainError("BARCODE_TAKEN", "Another product already carries this barcode"),
			wantStatus: http.StatusConflict,
			wantCode:   "BARCODE_TAKEN",
		},
		{
			name:       "unknown domain code falls back to 422",
			err:        shared.NewDomainError("SOME_NEW_RULE", "rejected"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "SOME_NEW_RULE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleErrorWrappedDomainError(t *testing.T) {
	h := NewBaseHandler(nil)
	c, w := newTestContext(t)

	wrapped := errors.Join(errors.New("save lot"), shared.ErrConcurrencyConflict)
	h.HandleError(c, wrapped)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleErrorInternal(t *testing.T) {
	h := NewBaseHandler(nil)
	c, w := newTestContext(t)

	h.HandleError(c, errors.New("connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	// The raw error detail must not leak to the client
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestSuccessEnvelope(t *testing.T) {
	h := NewBaseHandler(nil)
	c, w := newTestContext(t)

	h.Success(c, gin.H{"total": 42})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestPharmacyIDFromClaims(t *testing.T) {
	h := NewBaseHandler(nil)
	pharmacyID := uuid.New()

	c, _ := newTestContext(t)
	c.Set(middleware.JWTPharmacyIDKey, pharmacyID.String())

	got, ok := h.pharmacyID(c)
	require.True(t, ok)
	assert.Equal(t, pharmacyID, got)
}

func TestPharmacyIDMissing(t *testing.T) {
	h := NewBaseHandler(nil)
	c, w := newTestContext(t)

	_, ok := h.pharmacyID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TENANT_SCOPE_MISSING")
}

func TestBindListFilterDefaults(t *testing.T) {
	h := NewBaseHandler(nil)
	c, _ := newTestContext(t)

	filter, ok := h.bindListFilter(c)
	require.True(t, ok)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 20, filter.PageSize)
	assert.Equal(t, "created_at", filter.OrderBy)
}

func TestBindListFilterOverrides(t *testing.T) {
	h := NewBaseHandler(nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=3&page_size=50&order_by=commercial_name&order_dir=asc&search=doliprane", nil)

	filter, ok := h.bindListFilter(c)
	require.True(t, ok)
	assert.Equal(t, 3, filter.Page)
	assert.Equal(t, 50, filter.PageSize)
	assert.Equal(t, "commercial_name", filter.OrderBy)
	assert.Equal(t, "asc", filter.OrderDir)
	assert.Equal(t, "doliprane", filter.Search)
}

func TestNewMetaPagination(t *testing.T) {
	filter := shared.Filter{Page: 2, PageSize: 20}
	meta := dto.NewMeta(filter, 45)

	assert.Equal(t, int64(45), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
}
