package controllers

import (
	"fmt"
	"strconv"

	"github.com/ecole/schoolrecords/internal/app/models/dto"
	"github.com/ecole/schoolrecords/internal/middleware"
	"github.com/gin-gonic/gin"
)

// parseID reads a positive int64 path parameter, writing a 400 when it is malformed
func parseID(ctx *gin.Context, param, entity string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(param), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, fmt.Sprintf("Invalid %s ID", entity)).
			WithField(param).
			WithDetails(fmt.Sprintf("%s ID must be a positive integer", entity))
		middleware.BadRequest(ctx, errorDetail)
		return 0, false
	}
	return id, true
}

// bindJSON binds the request body, writing a 400 with field errors on failure
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		middleware.BadRequest(ctx, dto.HandleValidationError(err))
		return false
	}
	return true
}
