package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/request"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "title", Message: "title is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"not found wrapped", fmt.Errorf("load: %w", request.ErrRequestNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"no shift", shift.ErrShiftNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"already processed", request.ErrAlreadyProcessed, http.StatusConflict, "CONFLICT"},
		{"unauthorized", request.ErrUnauthorized, http.StatusForbidden, "FORBIDDEN"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleError_Details(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, fmt.Errorf("approve: %w", &leave.InsufficientBalanceError{
		Requested: decimal.NewFromInt(3),
		Remaining: decimal.NewFromFloat(1.5),
	}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INSUFFICIENT_BALANCE", body.Error.Code)
	assert.Equal(t, "3", body.Error.Details["requested"])
	assert.Equal(t, "1.5", body.Error.Details["remaining"])

	rec = httptest.NewRecorder()
	HandleError(rec, &request.ConflictError{
		Kind:       request.KindDayOff,
		Date:       time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		ExistingID: "req-1",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2024-02-15", body.Error.Details["date"])
	assert.Equal(t, "req-1", body.Error.Details["existing_id"])
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, 3, NewMeta(1, 20, 41).TotalPages)
	assert.Equal(t, 2, NewMeta(1, 20, 40).TotalPages)
	assert.Equal(t, 0, NewMeta(1, 20, 0).TotalPages)
	assert.Equal(t, 0, NewMeta(1, 0, 5).TotalPages)
}
