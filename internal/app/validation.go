package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"travel_catalog/internal/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report json names so API clients see the field they sent
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// Validate runs the struct's validate tags and returns *domain.ValidationError
// listing every failed field, or nil.
func Validate(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &domain.ValidationError{Fields: []domain.FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}
	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: translate(fe),
		})
	}
	return out
}

var simpleMessages = map[string]string{
	"notblank": "%s is required",
	"required": "%s is required",
	"email":    "%s must be a valid email address",
}

var paramMessages = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translate(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()
	if tpl, ok := simpleMessages[tag]; ok {
		return fmt.Sprintf(tpl, field)
	}
	if tpl, ok := paramMessages[tag]; ok {
		return fmt.Sprintf(tpl, field, param)
	}
	isString := fe.Kind() == reflect.String
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}

// invalid builds a single-field validation error for checks that cannot be
// expressed as struct tags.
func invalid(field, tag, msg string) error {
	return &domain.ValidationError{Fields: []domain.FieldError{{Field: field, Tag: tag, Message: msg}}}
}
