package dto

import (
	"net/http"
	"testing"

	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"NO_ACTIVE_BATCH", http.StatusNotFound},
		{"NOT_FOUND", http.StatusNotFound},
		{"CHECKOUT_BLOCKED", http.StatusConflict},
		{"BATCH_ALREADY_OPEN", http.StatusConflict},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"ALREADY_PAID", http.StatusConflict},
		{"INVALID_TRANSITION", http.StatusUnprocessableEntity},
		{"NOTHING_TO_PAY", http.StatusUnprocessableEntity},
		{"INVALID_RATE", http.StatusBadRequest},
		{"TOTAL_MISMATCH", http.StatusBadRequest},
		{"FORBIDDEN", http.StatusForbidden},
		{"INVALID_WEBHOOK_TOKEN", http.StatusUnauthorized},
		{"GATEWAY_UNAVAILABLE", http.StatusBadGateway},
		{"GATEWAY_REJECTED", http.StatusBadGateway},
		{"RECONCILE_FAILED", http.StatusServiceUnavailable},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	page := shared.NewPaginated([]string{"a", "b"}, 5, 1, 2)
	resp := NewPaginatedResponse(page)

	assert.True(t, resp.Success)
	assert.Equal(t, []string{"a", "b"}, resp.Data)
	if assert.NotNil(t, resp.Meta) {
		assert.Equal(t, int64(5), resp.Meta.Total)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	}
}

func TestNewPaginatedResponse_EmptyItemsIsArray(t *testing.T) {
	resp := NewPaginatedResponse(shared.NewPaginated[int](nil, 0, 1, 20))
	assert.Equal(t, []int{}, resp.Data)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("NOT_FOUND", "Order not found", "req-1")
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	assert.Equal(t, &ErrorInfo{Code: "NOT_FOUND", Message: "Order not found", RequestID: "req-1"}, resp.Error)
}
