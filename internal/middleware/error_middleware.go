package middleware

import (
	"errors"
	"net/http"

	"github.com/ecole/schoolrecords/internal/app/models/dto"
	"github.com/ecole/schoolrecords/internal/pkg/apperrors"
	"github.com/ecole/schoolrecords/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// --- Central Error Handling ---

// HandleAPIError maps every error kind to exactly one status code and error code
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classifyError(err)

	event := logger.Warn()
	if status >= http.StatusInternalServerError || detail.Code == dto.ErrorCodeDatabaseError {
		event = logger.Error()
	}
	event.Err(err).
		Str("requestID", RequestIDFrom(c)).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Str("code", string(detail.Code)).
		Msg("Request failed")

	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func classifyError(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, apperrors.Message(err)).
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, apperrors.Message(err)).
			WithField(apperrors.FieldOf(err)).
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, apperrors.Message(err)).
			WithField("email").
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrDuplicateEnrollment):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeDuplicateEnrollment, apperrors.Message(err)).
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrPersistence):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database operation failed")
	default:
		// Anything unclassified is reported the same way as a storage failure
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Request could not be processed")
	}
}

// BadRequest writes a 400 for input rejected before reaching a service
func BadRequest(c *gin.Context, detail *dto.ErrorDetail) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
