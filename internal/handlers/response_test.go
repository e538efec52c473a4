package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Favoursimeon/flexirents-sub000/internal/models"
	"github.com/Favoursimeon/flexirents-sub000/internal/services"
)

func TestEngineErrorResponseStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", services.NewValidationError("plan", "unknown plan"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", services.NewNotFoundError("payment", "abc"), http.StatusNotFound, "NOT_FOUND"},
		{"invalid transition", services.NewInvalidTransitionError("rejected", "approve"), http.StatusConflict, "INVALID_TRANSITION"},
		{"concurrency conflict", services.NewConcurrencyConflictError("payment", "abc", "rejected"), http.StatusConflict, "CONCURRENCY_CONFLICT"},
		{"persistence", services.NewPersistenceError("create lease", false, errors.New("db down")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			EngineErrorResponse(c, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			var body models.APIResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestSuccessResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	SuccessResponse(c, http.StatusCreated, "Checkout created", gin.H{"lease_id": "abc"})

	assert.Equal(t, http.StatusCreated, recorder.Code)

	var body models.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "Checkout created", body.Message)
	assert.Nil(t, body.Error)
}
