package handler

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/limo-transfers/service-quote/internal/platform/apperror"
)

const invalidJSONMessage = "invalid JSON body"

var jsonFieldNames sync.Once

// useJSONFieldNames makes validation errors report the JSON field names
// clients send instead of Go struct field names.
func useJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
}

// bindJSON decodes and validates the request body into dst. An empty body is
// validated as an empty object so the error names every missing field.
func bindJSON(c *gin.Context, dst any) error {
	jsonFieldNames.Do(useJSONFieldNames)

	err := c.ShouldBindJSON(dst)
	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(dst)
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return translateValidation(fieldErrs)
	}
	return apperror.NewValidationError(invalidJSONMessage)
}

// translateValidation reports missing fields first, then the first other rule.
func translateValidation(fieldErrs validator.ValidationErrors) error {
	var missing []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return apperror.NewMissingFieldsError(missing...)
	}

	fe := fieldErrs[0]
	if fe.Tag() == "min" && fe.Param() == "0" {
		return apperror.NewValidationError(fe.Field() + " must not be negative")
	}
	return apperror.NewValidationError(fe.Field() + " is invalid")
}
