package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Favoursimeon/flexirents-sub000/internal/models"
	"github.com/Favoursimeon/flexirents-sub000/internal/services"
)

// SuccessResponse sends a success response
func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c *gin.Context, status int, code, message string, err error) {
	apiError := &models.APIError{
		Code:    code,
		Message: message,
	}
	if err != nil {
		apiError.Details = err.Error()
	}

	c.JSON(status, models.APIResponse{
		Success: false,
		Message: message,
		Error:   apiError,
	})
}

// EngineErrorResponse maps an engine error to the matching HTTP status
func EngineErrorResponse(c *gin.Context, err error) {
	switch {
	case isValidation(err):
		ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err)
	case isNotFound(err):
		ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", "Resource not found", err)
	case isInvalidTransition(err):
		ErrorResponse(c, http.StatusConflict, "INVALID_TRANSITION", "Decision not permitted in the current state", err)
	case isConcurrencyConflict(err):
		ErrorResponse(c, http.StatusConflict, "CONCURRENCY_CONFLICT", "Another reviewer acted first", err)
	default:
		ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed", err)
	}
}

func isValidation(err error) bool {
	_, ok := services.IsValidationError(err)
	return ok
}

func isNotFound(err error) bool {
	_, ok := services.IsNotFoundError(err)
	return ok
}

func isInvalidTransition(err error) bool {
	_, ok := services.IsInvalidTransitionError(err)
	return ok
}

func isConcurrencyConflict(err error) bool {
	_, ok := services.IsConcurrencyConflictError(err)
	return ok
}
