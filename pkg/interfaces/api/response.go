package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vsinha/garmentmrp/pkg/domain/shared"
	"github.com/vsinha/garmentmrp/pkg/infrastructure/logger"
	"go.uber.org/zap"
)

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

var statusByCode = map[string]int{
	shared.ErrNotFound.Code:           http.StatusNotFound,
	shared.ErrAlreadyExists.Code:      http.StatusConflict,
	shared.ErrInvalidInput.Code:       http.StatusBadRequest,
	shared.ErrUnauthorized.Code:       http.StatusForbidden,
	shared.ErrInvalidState.Code:       http.StatusConflict,
	shared.ErrEmptySelection.Code:     http.StatusBadRequest,
	shared.ErrMultipleSuppliers.Code:  http.StatusUnprocessableEntity,
	shared.ErrExceedsPredecessor.Code: http.StatusConflict,
}

// respondError writes err with the status its domain code maps to
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	requestID := logger.RequestID(c.Request.Context())

	code := shared.Code(err)
	status, ok := statusByCode[code]
	switch {
	case ok:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusServiceUnavailable, "CANCELLED"
	default:
		logger.FromContext(c.Request.Context(), nil).Error("request failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Code: "INTERNAL", Message: "internal server error", RequestID: requestID})
		return
	}
	c.AbortWithStatusJSON(status, errorBody{Code: code, Message: err.Error(), RequestID: requestID})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{
		Code:      shared.ErrInvalidInput.Code,
		Message:   err.Error(),
		RequestID: logger.RequestID(c.Request.Context()),
	})
}
