// Package validator wraps go-playground/validator with translated,
// field-level error messages.
package validator

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validator validates structs using `validate` tags.
type Validator interface {
	Struct(s any) error
	StructCtx(ctx context.Context, s any) error
	GetValidator() *validator.Validate
}

// Validate is the shared validator instance.
var Validate Validator = New()

type impl struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New creates a validator with English message translation.
func New() Validator {
	v := validator.New()

	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(v, trans)

	return &impl{validate: v, trans: trans}
}

func (i *impl) Struct(s any) error {
	if s == nil {
		return errors.New("validator: target cannot be nil")
	}
	return i.translate(i.validate.Struct(s))
}

func (i *impl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.New("validator: target cannot be nil")
	}
	return i.translate(i.validate.StructCtx(ctx, s))
}

func (i *impl) GetValidator() *validator.Validate {
	return i.validate
}

func (i *impl) translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Translate(i.trans)
		fields[fe.Field()] = msg
		messages = append(messages, msg)
	}
	return &Errors{Fields: fields, message: strings.Join(messages, "; ")}
}

// Errors carries translated per-field validation messages.
type Errors struct {
	Fields  map[string]string
	message string
}

func (e *Errors) Error() string { return e.message }
