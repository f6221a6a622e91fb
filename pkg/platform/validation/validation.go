// Package validation wraps go-playground/validator with the service's custom
// tags and English messages keyed by JSON field name.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	dErrors "vaxtrack/pkg/domain-errors"
)

// custom validation tags
const (
	notBlankTag     = "notblank"
	ghanaPhoneTag   = "gh_phone"
	batchNumberTag  = "batch"
	facilityCodeTag = "facility_code"
)

var (
	ghanaPhonePattern   = regexp.MustCompile(`^(?:\+233|0)[2345]\d{8}$`)
	batchNumberPattern  = regexp.MustCompile(`^[A-Z0-9]{6,12}$`)
	facilityCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

	validate   *validator.Validate
	translator ut.Translator

	customMessages = map[string]string{
		notBlankTag:     "this field cannot be blank",
		ghanaPhoneTag:   "must be a Ghana phone number (+233XXXXXXXXX or 0XXXXXXXXX)",
		batchNumberTag:  "must be 6-12 uppercase letters or digits",
		facilityCodeTag: "must be 2-10 uppercase letters or digits",
	}
)

func init() {
	validate = validator.New()

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

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(ghanaPhoneTag, matches(ghanaPhonePattern))
	_ = validate.RegisterValidation(batchNumberTag, matches(batchNumberPattern))
	_ = validate.RegisterValidation(facilityCodeTag, matches(facilityCodePattern))

	// the default translation is already registered, so a noop register func
	// satisfies RegisterTranslation
	registerFn := func(ut.Translator) error { return nil }
	for tag := range customMessages {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	return customMessages[fe.Tag()]
}

func notBlank(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// matches passes empty strings so optional fields compose with omitempty and
// required.
func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return str == "" || re.MatchString(str)
	}
}

// Struct validates v against its `validate` tags. Failures come back as a
// validation domain error listing each field's message.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	fields := Fields(err)
	if len(fields) == 0 {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid request")
	}
	return dErrors.New(dErrors.CodeValidation, joinFields(fields))
}

// Fields maps JSON field names to their translated messages.
func Fields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(translator)
	}
	return out
}

func joinFields(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+fields[name])
	}
	return strings.Join(parts, "; ")
}
