package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/errs"
)

var (
	phonePattern    = regexp.MustCompile(`^\+7\d{10}$`)
	telegramPattern = regexp.MustCompile(`^@\w+$`)
)

var validate = newValidator()

// newValidator builds the validator shared by every request type. Field names in
// reported errors follow the yaml tags so they match the input files.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("ruphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("telegram", func(fl validator.FieldLevel) bool {
		return telegramPattern.MatchString(fl.Field().String())
	})

	return v
}

// validateStruct runs the struct tags and converts failures into field errors
func validateStruct(s any) errs.FieldErrors {
	fields := errs.FieldErrors{}
	err := validate.Struct(s)
	if err == nil {
		return fields
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields.Add("_", "%s", err.Error())
		return fields
	}

	for _, fe := range verrs {
		fields.Add(fieldPath(fe), "%s", fieldMessage(fe))
	}
	return fields
}

// fieldPath drops the root struct name from the namespace: "ProjectInput.address.street" -> "address.street"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + fe.Param() + " item(s)"
		}
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "ruphone":
		return "phone must look like +7XXXXXXXXXX"
	case "telegram":
		return "telegram handle must start with @ and contain only letters, digits and underscores"
	case "url":
		return "must be a valid URL"
	}
	return "failed " + fe.Tag() + " validation"
}
