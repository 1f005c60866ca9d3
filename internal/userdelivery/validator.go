package userdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/banco-acme/portal-api/internal/domain"
)

// ValidIDType validates whether the identity document type is supported.
var ValidIDType validator.Func = func(fl validator.FieldLevel) bool {
	if idType, ok := fl.Field().Interface().(string); ok {
		return domain.IsSupportedIDType(idType)
	}

	return false
}
