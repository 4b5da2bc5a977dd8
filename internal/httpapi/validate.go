package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/alexanderramin/irrigo/internal/app"
	"github.com/go-playground/validator/v10"
)

type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{v: v}
}

// Validate reports the first failing field as a request error whose code
// names the kind of field that failed.
func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return app.NewRequestError(app.ErrInvalidInput, err.Error())
	}
	fe := verrs[0]
	return app.NewRequestError(fieldCode(fe.Field()), describe(fe))
}

var fieldCodes = map[string]app.RequestErrorCode{
	"week":          app.ErrInvalidWeekIndex,
	"month":         app.ErrInvalidMonth,
	"date":          app.ErrInvalidDate,
	"subActivityId": app.ErrMissingSubActivity,
}

func fieldCode(field string) app.RequestErrorCode {
	if code, ok := fieldCodes[field]; ok {
		return code
	}
	return app.ErrInvalidInput
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date formatted YYYY-MM-DD", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
