package idmapcmd

import (
	"fmt"

	"github.com/concourse/flag"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	ValidationErrLogLevel   = fmt.Sprintf("Not a valid log level. Valid options include %v.", flag.ValidLogLevels)
	ValidationErrMaxID      = "Not a valid ID-space maximum. It must be a positive integer."
	ValidationErrFillerBase = "Not a valid filler base. It must be greater than the ID-space maximum, otherwise filler host ranges could collide with explicit mappings."
)

func NewValidator(trans ut.Translator) *validator.Validate {
	validate := validator.New()
	en_translations.RegisterDefaultTranslations(validate, trans)

	validate.RegisterValidation("log_level", ValidateLogLevel)

	ve := NewValidatorErrors(validate, trans)
	ve.SetupErrorMessages()

	return validate
}

type validatorErrors struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewValidatorErrors(validate *validator.Validate, trans ut.Translator) *validatorErrors {
	return &validatorErrors{
		validate: validate,
		trans:    trans,
	}
}

func (v *validatorErrors) SetupErrorMessages() {
	v.RegisterTranslation("log_level", ValidationErrLogLevel)
	v.RegisterTranslation("gt", ValidationErrMaxID)
	v.RegisterTranslation("gtfield", ValidationErrFillerBase)
}

func (v *validatorErrors) RegisterTranslation(validationName string, errorString string) {
	v.validate.RegisterTranslation(validationName, v.trans, func(ut ut.Translator) error {
		return ut.Add(validationName, errorString, true) // see universal-translator for details
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(validationName, fe.Field())
		return fmt.Sprintf(`error: %s,
value: %s=%s`, t, fe.Field(), fe.Value())
	})
}

func ValidateLogLevel(field validator.FieldLevel) bool {
	value := field.Field().String()
	for _, validChoice := range flag.ValidLogLevels {
		if value == string(validChoice) {
			return true
		}
	}

	return false
}
