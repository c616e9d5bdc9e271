package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/punsta/internal/engine"
	"github.com/stwalsh4118/punsta/internal/logger"
	"github.com/stwalsh4118/punsta/internal/store"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// writeEngineError maps an engine error to an HTTP status and error code
func writeEngineError(c *gin.Context, err error, action string) {
	var ve *engine.ValidationError
	switch {
	case engine.IsGameNotStarted(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "game_not_started",
			Message: "Start a new game first",
		})
	case engine.IsAlreadyAdvertised(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "already_advertised",
			Message: err.Error(),
			Field:   "budget",
		})
	case engine.IsInsufficientFunds(err):
		c.JSON(http.StatusPaymentRequired, ErrorResponse{
			Error:   "insufficient_funds",
			Message: err.Error(),
		})
	case store.IsStaleGeneration(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "state_changed",
			Message: "The game was replaced, retry the request",
		})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_failed",
			Message: ve.Error(),
			Field:   ve.Field,
		})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "timeout",
			Message: "Request timed out",
		})
	default:
		logger.Log.Error().
			Err(err).
			Str("action", action).
			Msg("Engine action failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   action + "_failed",
			Message: "Internal error",
		})
	}
}

// invalidRequest reports a request body that could not be bound
func invalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid request body: " + err.Error(),
	})
}
