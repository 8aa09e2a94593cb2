package validator

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/Behyna/hisabkitab/internal/api/contract"
	"github.com/Behyna/hisabkitab/internal/constants"
	"github.com/Behyna/hisabkitab/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	sep = " and "
)

type Error struct {
	Error       bool
	FailedField string
	Tag         string
	Param       string
	Value       interface{}
}

type IXValidator interface {
	Validator(data any, c *fiber.Ctx) (responseErr contract.Response)
	Validate(data interface{}) []Error
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(v *validator.Validate, metrics *metrics.Metrics) IXValidator {
	v.RegisterTagNameFunc(jsonTagName)
	for key, function := range valid {
		_ = v.RegisterValidation(key, function)
	}

	return &XValidator{
		validator: v,
		metrics:   metrics,
	}
}

// Validator parses the request body into data, which must be a pointer to a
// struct, and validates it. A non-empty Code on the returned response means
// the request was rejected and the status has already been set on c.
func (x XValidator) Validator(data any, c *fiber.Ctx) (responseErr contract.Response) {
	start := time.Now()

	if err := c.BodyParser(data); err != nil {
		c.Status(http.StatusBadRequest)
		x.recordDuration("parse_error", start)
		return contract.Response{
			Code:    constants.ErrCodeInvalidRequestBody,
			Message: constants.ErrMsgInvalidRequestBody,
		}
	}

	if errs := x.Validate(data); len(errs) > 0 && errs[0].Error {
		errMsgs := make([]string, 0, len(errs))
		for _, err := range errs {
			errMsgs = append(errMsgs, message(err))

			if x.metrics != nil {
				x.metrics.RecordValidationError(err.FailedField, err.Tag)
			}
		}
		c.Status(http.StatusUnprocessableEntity)
		x.recordDuration("validation_error", start)

		return contract.Response{
			Code:    constants.ErrCodeValidationFailed,
			Message: strings.Join(errMsgs, sep),
		}
	}

	x.recordDuration("validation_success", start)

	return responseErr
}

func (x XValidator) Validate(data interface{}) []Error {
	var validationErrors []Error

	errs := x.validator.Struct(data)
	if errs != nil {
		validationErrs, ok := errs.(validator.ValidationErrors)
		if !ok {
			return []Error{{Error: true, FailedField: "body", Tag: "invalid"}}
		}
		for _, err := range validationErrs {
			var elem Error
			elem.FailedField = err.Field()
			elem.Tag = err.Tag()
			elem.Param = err.Param()
			elem.Value = err.Value()
			elem.Error = true
			validationErrors = append(validationErrors, elem)
		}
	}
	return validationErrors
}

func (x XValidator) recordDuration(endpoint string, start time.Time) {
	if x.metrics != nil {
		x.metrics.RecordValidationDuration(endpoint, time.Since(start))
	}
}

func message(err Error) string {
	switch err.Tag {
	case "required":
		return fmt.Sprintf("%s is required", err.FailedField)
	case "min", "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.FailedField, err.Param)
	case "max", "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.FailedField, err.Param)
	case NotBlankTag:
		return fmt.Sprintf("%s must not be blank", err.FailedField)
	default:
		return fmt.Sprintf(constants.MessageErrorFormat, err.FailedField)
	}
}

func jsonTagName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}
