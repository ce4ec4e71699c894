package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/arziki-reports/internal/application/service"
	"github.com/garyjia/arziki-reports/internal/application/wizard"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
	domainwiz "github.com/garyjia/arziki-reports/internal/domain/wizard"
)

// statusFor maps application errors onto HTTP status codes
func statusFor(err error) int {
	var validationErr *entity.ValidationError
	var submissionErr *wizard.SubmissionError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &submissionErr):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, wizard.ErrSessionNotFound),
		errors.Is(err, wizard.ErrAttachmentNotFound),
		errors.Is(err, service.ErrReportNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainwiz.ErrInvalidTransition),
		errors.Is(err, wizard.ErrStepLocked),
		errors.Is(err, wizard.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, wizard.ErrIndexOutOfRange),
		errors.Is(err, entity.ErrUnknownField),
		errors.Is(err, service.ErrUnsupportedAttachment),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrInvalidDraft):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrChatUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err in the standard envelope. Validation refusals also
// carry the list of missing fields.
func (h *Handlers) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	}

	resp := Response{Success: false, Error: err.Error()}

	var validationErr *entity.ValidationError
	if errors.As(err, &validationErr) {
		resp.Error = validationErr.Message
		resp.Data = gin.H{"missing_fields": validationErr.Fields}
	}
	if status == http.StatusInternalServerError {
		resp.Error = "internal error"
	}

	c.JSON(status, resp)
}
