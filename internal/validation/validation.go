// Package validation registers the custom binding tags used by request DTOs
// and turns validator failures into field-level error details.
package validation

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/ludicboard/ludicboard-api/internal/errors"
	"github.com/ludicboard/ludicboard-api/internal/models"
)

var registerOnce sync.Once

// Register installs the custom tags on gin's validator. Safe to call more than once.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		err = RegisterOn(v)
	})
	return err
}

// RegisterOn installs the custom tags on v.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	tags := map[string]validator.Func{
		"taskstatus": func(fl validator.FieldLevel) bool {
			return models.TaskStatus(fl.Field().String()).Valid()
		},
		"taskpriority": func(fl validator.FieldLevel) bool {
			return models.TaskPriority(fl.Field().String()).Valid()
		},
		"projectrole": func(fl validator.FieldLevel) bool {
			return models.ProjectRole(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// BindError converts an error from ShouldBind* into a 400 AppError.
func BindError(err error) *apierrors.AppError {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		details := make([]apierrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, apierrors.FieldError{
				Field:   fe.Field(),
				Message: message(fe),
			})
		}
		return apierrors.BadRequest("Validation failed").WithDetails(details)
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return apierrors.BadRequest("Invalid request body").WithDetails([]apierrors.FieldError{{
			Field:   typeErr.Field,
			Message: "must be a " + typeErr.Type.String(),
		}})
	}

	return apierrors.BadRequest("Invalid request body")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "gtefield":
		return "must not be before " + fe.Param()
	case "taskstatus":
		return "must be one of To Do, Work In Progress, Under Review, Completed"
	case "taskpriority":
		return "must be one of Urgent, High, Medium, Low, Backlog"
	case "projectrole":
		return "must be one of OWNER, ADMIN, MEMBER, VIEWER"
	case "url":
		return "must be a valid URL"
	}
	return "is invalid"
}
