package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	paymentapp "github.com/napsterimports/backend/internal/application/payment"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/infrastructure/logger"
	"github.com/napsterimports/backend/internal/interfaces/http/dto"
	"github.com/napsterimports/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h gin.HandlerFunc, method, body string) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Handle(method, "/items/:id", h)

	req := httptest.NewRequest(method, "/items/abc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHandleError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"domain error", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped domain error", shared.WrapDomainError("CHECKOUT_BLOCKED", "closed", errors.New("no batch")), http.StatusConflict, "CHECKOUT_BLOCKED"},
		{"unknown domain code", shared.NewDomainError("EMPTY_AUDIT_ENTRY", "empty"), http.StatusInternalServerError, "EMPTY_AUDIT_ENTRY"},
		{"plain error", errors.New("db down"), http.StatusInternalServerError, dto.ErrCodeInternal},
		{
			"exhausted payment retries",
			fmt.Errorf("reconcile payment T1: %w: %w", paymentapp.ErrReconcileFailed, shared.ErrConcurrencyConflict),
			http.StatusServiceUnavailable, "RECONCILE_FAILED",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := serve(t, func(c *gin.Context) { h.HandleError(c, tt.err) }, http.MethodGet, "")
			assert.Equal(t, tt.wantCode, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestHandleError_LogsUnexpectedErrors(t *testing.T) {
	core, recorded := observer.New(zap.ErrorLevel)
	h := &BaseHandler{}

	r := gin.New()
	r.Use(middleware.RequestID(), logger.GinMiddleware(zap.New(core)))
	r.GET("/", func(c *gin.Context) { h.HandleError(c, errors.New("connection reset")) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, recorded.FilterMessage("Unexpected error").Len())
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestBindJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name" binding:"required,max=5"`
	}
	h := &BaseHandler{}
	handle := func(c *gin.Context) {
		var p payload
		if !h.bindJSON(c, &p) {
			return
		}
		h.Success(c, p)
	}

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"valid", `{"name":"ok"}`, http.StatusOK, ""},
		{"missing field", `{}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"too long", `{"name":"toolong"}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"malformed", `{"name":`, http.StatusBadRequest, dto.ErrCodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := serve(t, handle, http.MethodPost, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantErr == "" {
				assert.True(t, resp.Success)
				return
			}
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantErr, resp.Error.Code)
		})
	}
}

func TestParseID_Invalid(t *testing.T) {
	h := &BaseHandler{}
	w, resp := serve(t, func(c *gin.Context) {
		if _, ok := h.parseID(c, "id"); ok {
			h.Success(c, nil)
		}
	}, http.MethodGet, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id format", resp.Error.Message)
}

func TestCurrentUser_RequiresClaims(t *testing.T) {
	h := &BaseHandler{}
	w, resp := serve(t, func(c *gin.Context) {
		if _, _, ok := h.currentUser(c); ok {
			h.Success(c, nil)
		}
	}, http.MethodGet, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		db       Pinger
		wantCode int
		want     HealthResponse
	}{
		{"no database", nil, http.StatusOK, HealthResponse{Status: "healthy"}},
		{"database up", pingerFunc(func(context.Context) error { return nil }), http.StatusOK, HealthResponse{Status: "healthy", Database: "up"}},
		{"database down", pingerFunc(func(context.Context) error { return errors.New("refused") }), http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Database: "down"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthHandler(tt.db).Health)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			var got HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
