package middleware

import (
	"github.com/ecole/schoolrecords/internal/app/models/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidator makes gin's binding validator report json field names.
// It must run before the first request is bound.
func RegisterValidator() bool {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return false
	}
	dto.RegisterJSONTagNames(v)
	return true
}
