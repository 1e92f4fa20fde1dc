package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/services"
)

const (
	msgInvalidPayload      = "Invalid payload"
	msgUnauthorized        = "Unauthorized"
	msgInvalidCredentials  = "Invalid credentials"
	msgEmailInUse          = "Email already in use"
	msgProjectNotFound     = "Project not found"
	msgTaskNotFound        = "Task not found"
	msgInternalServerError = "Internal server error"
)

type fieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type apiError struct {
	Code    int          `json:"-"`
	Message string       `json:"message"`
	Issues  []fieldIssue `json:"issues,omitempty"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, err)
}

func newInvalidPayloadError(issues []fieldIssue) apiError {
	err := newAPIError(http.StatusBadRequest, msgInvalidPayload)
	err.Issues = issues
	return err
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

func newInternalServerError() apiError {
	return newAPIError(http.StatusInternalServerError, msgInternalServerError)
}

// AbortInternalServerError writes the generic 500 body. It is used by the
// recovery middleware so that panics look like any other internal error.
func AbortInternalServerError(c *gin.Context) {
	abort(c, newInternalServerError())
}

// abortServiceError maps a service error onto its response. Anything that is
// not a known sentinel becomes a generic 500.
func (h *handlerImpl) abortServiceError(c *gin.Context, err error, msg string) {
	h.logger.Error().
		Err(err).
		Msg(msg)
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		abort(c, newNotFoundError(msgProjectNotFound))
	case errors.Is(err, services.ErrTaskNotFound):
		abort(c, newNotFoundError(msgTaskNotFound))
	case errors.Is(err, services.ErrInvalidTaskStatus):
		abort(c, newInvalidPayloadError([]fieldIssue{{Field: "status", Message: "must be one of: TODO, DOING, DONE"}}))
	case errors.Is(err, services.ErrInvalidPriority):
		abort(c, newInvalidPayloadError([]fieldIssue{{Field: "priority", Message: "must be one of: LOW, MEDIUM, HIGH"}}))
	default:
		abort(c, newInternalServerError())
	}
}
