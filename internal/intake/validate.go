package intake

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kodmani-estates/leadflow/internal/leads"
)

// fullNamePattern allows Latin letters, the Arabic letter block and
// whitespace only.
var fullNamePattern = regexp.MustCompile(`^[a-zA-Z\x{0600}-\x{06FF}\s]+$`)

// newValidator builds the shared validator with the custom tags used by
// the submission payloads.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("fullname", func(fl validator.FieldLevel) bool {
		return fullNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("uaephone", func(fl validator.FieldLevel) bool {
		return leads.ValidUAEPhone(fl.Field().String())
	})

	return v
}

// Bilingual, user-facing messages keyed by field and failing tag. The
// first failing field's message doubles as the submission-level error.
var fieldMessages = map[string]string{
	"Name.min":      "الاسم يجب أن يكون حرفين على الأقل / Name must be at least 2 characters",
	"Name.max":      "الاسم طويل جداً / Name is too long",
	"Name.fullname": "الاسم يجب أن يحتوي على أحرف فقط / Name must contain only letters",
	"Name.required": "الاسم مطلوب / Name is required",

	"FullName.min":      "الاسم يجب أن يكون حرفين على الأقل / Name must be at least 2 characters",
	"FullName.max":      "الاسم طويل جداً / Name is too long",
	"FullName.fullname": "الاسم يجب أن يحتوي على أحرف فقط / Name must contain only letters",
	"FullName.required": "الاسم مطلوب / Name is required",

	"Phone.required": "الرجاء إدخال رقم هاتف إماراتي صحيح / Please enter a valid UAE phone number",
	"Phone.uaephone": "الرجاء إدخال رقم هاتف إماراتي صحيح / Please enter a valid UAE phone number",

	"Email.email": "البريد الإلكتروني غير صحيح / Invalid email",

	"PropertyInterest.required":  "الرجاء تحديد العقار / Please specify property interest",
	"PropertyRef.required":       "Property reference is required",
	"BudgetRange.required":       "Budget range is required",
	"PropertyType.required":      "Property type is required",
	"ContactPreference.required": "Please choose how you would like to be contacted",
	"ContactPreference.oneof":    "Contact preference must be whatsapp, call or email",
	"Source.oneof":               "Unknown lead source",
}

// validationErrors flattens validator output into a field-keyed map of
// localized messages plus the first failing field's message.
func validationErrors(err error) (map[string]string, string) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, ""
	}

	out := make(map[string]string, len(verrs))
	first := ""
	for _, fe := range verrs {
		field := jsonFieldName(fe.Field())
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = field + " is invalid"
		}
		if _, seen := out[field]; !seen {
			out[field] = msg
		}
		if first == "" {
			first = msg
		}
	}
	return out, first
}

// jsonFieldName lower-cases the leading rune so error keys match the
// JSON payload field names.
func jsonFieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}
