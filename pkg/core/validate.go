package core

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

// custom validation tags
const (
	notBlankTag     = "notblank"
	templateKindTag = "templatekind"
)

// Instantiate the validator for use.
func init() {
	validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(templateKindTag, templateKindValidation)

	registerCustomValidationsTranslations(notBlankTag, templateKindTag)
}

// registerCustomValidationsTranslations registers error messages for custom
// validation tags. The translator itself is already registered with the
// default translations, so a noop register func is passed.
func registerCustomValidationsTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustomValidationErrs)
	}
}

func translateCustomValidationErrs(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field cannot be blank"
	case templateKindTag:
		return "unknown template kind"
	default:
		return ""
	}
}

// Custom Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return true
}

func templateKindValidation(fl validator.FieldLevel) bool {
	_, err := ParseKind(fl.Field().String())
	return err == nil
}

// runValidation validates a tagged input struct and converts validator
// failures into a *ValidationError with translated per-field messages.
func runValidation(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		flds := make([]FieldError, 0, len(vErrs))
		for _, vErr := range vErrs {
			flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(translator)})
		}
		return NewValidationError(nil, flds...)
	}
	return err
}

// CleanString trims surrounding whitespace from user input.
func CleanString(str string) string {
	return strings.TrimSpace(str)
}
