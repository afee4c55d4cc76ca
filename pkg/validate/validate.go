// Package validate runs struct-tag validation through go-playground/validator
// and reports failures as readable messages keyed by the field's JSON
// (or form) name.
//
// Besides validator's built-in rules it registers:
//
//	slug    lowercase letters, digits and single hyphens
//
// Example:
//
//	type CheckoutInput struct {
//	    FirstName string `json:"first_name" validate:"required,max=50"`
//	    Email     string `json:"email"      validate:"required,email"`
//	    Phone     string `json:"phone"      validate:"required,max=15"`
//	}
//
//	if errs := validate.Struct(in); validate.HasErrors(errs) { ... }
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate

	slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

func engine() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugRe.MatchString(fl.Field().String())
		})
	})
	return v
}

// fieldName prefers the json tag, then the form tag, then the Go name.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Struct validates v and returns a map of fieldName → error message.
// An empty map means no errors.
func Struct(s interface{}) map[string]string {
	errs := make(map[string]string)

	err := engine().Struct(s)
	if err == nil {
		return errs
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError: nil or non-struct input.
		return errs
	}

	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := errs[name]; seen {
			continue
		}
		errs[name] = message(fe)
	}
	return errs
}

// Var validates a single value against a tag string, e.g. Var(q, "min=2").
func Var(field interface{}, tag string) error {
	return engine().Var(field, tag)
}

// HasErrors reports whether the result of Struct contains any failures.
func HasErrors(errs map[string]string) bool {
	return len(errs) > 0
}

func message(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	param := fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "url", "http_url":
		return fmt.Sprintf("The %s format is invalid.", field)
	case "slug":
		return fmt.Sprintf("The %s may only contain lowercase letters, numbers and hyphens.", field)
	case "alphanum":
		return fmt.Sprintf("The %s may only contain letters and numbers.", field)
	case "numeric", "number":
		return fmt.Sprintf("The %s must be a number.", field)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", field)
	case "min", "gte":
		if isString {
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		}
		return fmt.Sprintf("The %s must be at least %s.", field, param)
	case "max", "lte":
		if isString {
			return fmt.Sprintf("The %s may not be greater than %s characters.", field, param)
		}
		return fmt.Sprintf("The %s may not be greater than %s.", field, param)
	case "len":
		return fmt.Sprintf("The %s must be %s characters.", field, param)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, param)
	case "lt":
		return fmt.Sprintf("The %s must be less than %s.", field, param)
	case "datetime":
		return fmt.Sprintf("The %s is not a valid date.", field)
	}
	return fmt.Sprintf("The %s is invalid.", field)
}
