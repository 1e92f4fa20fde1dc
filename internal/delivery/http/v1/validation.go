package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/adanyl0v/go-task-tracker/internal/nullable"
)

var registerValidationOnce sync.Once

// registerValidation teaches gin's validator about nullable fields and makes
// it report fields by their wire names.
func registerValidation() {
	registerValidationOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(wireName)
		v.RegisterCustomTypeFunc(nullableValue, nullable.Field[string]{})
	})
}

func wireName(field reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(field.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

func nullableValue(field reflect.Value) any {
	if v, ok := field.Interface().(interface{ ValidationValue() any }); ok {
		return v.ValidationValue()
	}
	return nil
}

// bindJSON decodes and validates the request body. On failure it aborts the
// request with field issues and returns false.
func (h *handlerImpl) bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newInvalidPayloadError(describeBindError(err, "body")))
		return false
	}
	return true
}

func (h *handlerImpl) bindQuery(c *gin.Context, req any) bool {
	err := c.ShouldBindQuery(req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind query")
		abort(c, newInvalidPayloadError(describeBindError(err, "query")))
		return false
	}
	return true
}

// describeBindError turns a decoding or validation error into field issues.
// Errors that cannot be attributed to one field are reported against source.
func describeBindError(err error, source string) []fieldIssue {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		issues := make([]fieldIssue, 0, len(validationErrs))
		for _, fe := range validationErrs {
			issues = append(issues, fieldIssue{
				Field:   fe.Field(),
				Message: describeFieldError(fe),
			})
		}
		return issues
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []fieldIssue{{
			Field:   typeErr.Field,
			Message: "must be of type " + typeErr.Type.String(),
		}}
	}

	if errors.Is(err, io.EOF) {
		return []fieldIssue{{Field: source, Message: "must not be empty"}}
	}
	return []fieldIssue{{Field: source, Message: "is malformed"}}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "datetime":
		return "must be an RFC 3339 timestamp"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return "must be at most " + fe.Param()
	default:
		return "failed on the " + fe.Tag() + " rule"
	}
}
