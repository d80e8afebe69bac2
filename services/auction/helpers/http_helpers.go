package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-site/internal/auctionerrors"
	"auction-site/utils"

	"github.com/gin-gonic/gin"
)

// SessionHeader carries the session token of the caller
const SessionHeader = "X-Session-Token"

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// HandleServiceError maps err to a JSON error response and logs it
func HandleServiceError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid argument"
	case errors.Is(err, auctionerrors.ErrOutOfRange):
		return http.StatusBadRequest, "argument out of range"
	case errors.Is(err, auctionerrors.ErrTimeTravel):
		return http.StatusUnprocessableEntity, "time must be in the future"
	case errors.Is(err, auctionerrors.ErrInexistentName):
		return http.StatusNotFound, "site not found"
	case errors.Is(err, auctionerrors.ErrNameConflict):
		return http.StatusConflict, "name already in use"
	case errors.Is(err, auctionerrors.ErrInvalidState):
		return http.StatusConflict, "operation not allowed in current state"
	case errors.Is(err, auctionerrors.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// SessionToken returns the caller's token or answers 401 when it is missing
func SessionToken(c *gin.Context) (string, bool) {
	token := c.GetHeader(SessionHeader)
	if token == "" {
		utils.JSONError(c, http.StatusUnauthorized, errors.New("missing "+SessionHeader+" header"), "authentication required")
		return "", false
	}
	return token, true
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
