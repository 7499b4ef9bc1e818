package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/journal-engine/internal/apperrors"
	"github.com/finbooks/journal-engine/internal/core/services"
	"github.com/finbooks/journal-engine/internal/middleware"
)

// statusForError maps service errors onto HTTP status codes. Validation style
// failures are 400, missing resources 404, state and uniqueness conflicts 409,
// everything else 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, services.ErrEntryMinLines),
		errors.Is(err, services.ErrEntryMinAccounts),
		errors.Is(err, services.ErrNegativeAmount),
		errors.Is(err, services.ErrUnbalancedEntry),
		errors.Is(err, services.ErrInvalidEntryType),
		errors.Is(err, services.ErrInvalidAccountsForEntryType),
		errors.Is(err, services.ErrAmountExceedsPolicyLimit),
		errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrBatchSizeExceeded):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, services.ErrDuplicateReference),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidStatusForReversal),
		errors.Is(err, services.ErrAlreadyProcessed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the mapped status with the error message, hiding
// internals behind a generic message for 500s.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Failed to " + action})
		return
	}
	logger.Warn("Rejected request to "+action, slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}

// requireActor extracts the acting user from the request headers, rejecting
// mutating calls that name no actor.
func requireActor(c *gin.Context) (string, bool) {
	actorID, ok := middleware.GetActorID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing " + middleware.ActorIDHeader + " header"})
		return "", false
	}
	return actorID, true
}
