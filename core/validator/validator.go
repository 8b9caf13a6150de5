package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// ValidateStruct runs the `validate` tags of f and folds every
// violation into a single readable error.
func ValidateStruct(f interface{}) error {
	err := getValidator().Struct(f)
	return checkError(err)
}

func ValidateOneOf(value string, enums ...string) error {
	tags := "omitempty,oneof=" + strings.Join(enums, " ")
	err := getValidator().Var(value, tags)
	return checkError(err)
}

// ValidateEmail reports whether value is a syntactically valid address.
func ValidateEmail(value string) error {
	err := getValidator().Var(value, "required,email")
	return checkError(err)
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = newValidator()
	})
	return validate
}

func checkError(err error) error {
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	errStrs := []string{}
	for _, e := range errs {
		field := e.Field()
		if field == "" {
			field = "value"
		}

		switch e.Tag() {
		case "oneof":
			errStrValue := fmt.Sprintf("error value \"%v\"", e.Value())
			if e.Field() != "" {
				errStrValue = errStrValue + fmt.Sprintf(" for key \"%s\"", e.Field())
			}
			errStrValue = errStrValue + fmt.Sprintf(" not recognized, only support \"%s\"", e.Param())
			errStrs = append(errStrs, errStrValue)
		case "gte":
			errStrs = append(errStrs, fmt.Sprintf("%s cannot be less than %s", field, e.Param()))
		case "lte":
			errStrs = append(errStrs, fmt.Sprintf("%s cannot be greater than %s", field, e.Param()))
		case "gt":
			errStrs = append(errStrs, fmt.Sprintf("%s must be greater than %s", field, e.Param()))
		case "required":
			errStrs = append(errStrs, fmt.Sprintf("%s is required", field))
		case "email":
			errStrs = append(errStrs, fmt.Sprintf("%s is not a valid email", field))
		case "url":
			errStrs = append(errStrs, fmt.Sprintf("%s is not a valid url", field))
		default:
			errStrs = append(errStrs, e.Error())
		}
	}
	return errors.New(strings.Join(errStrs, " and "))
}
