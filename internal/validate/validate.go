package validate

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	TagNotBlank     = "notblank"
	TagTrimmedMin   = "trimmed_min"
	TagBasicEmail   = "basic_email"
	TagPersonName   = "person_name"
	TagCity         = "city"
	TagAddress      = "address"
	TagPostalCode   = "postal_code"
	TagCardNumber   = "card_number"
	TagExpiryFormat = "expiry_format"
	TagNotExpired   = "not_expired"
	TagCVV          = "cvv"
)

var (
	basicEmail   = regexp.MustCompile(`\S+@\S+\.\S+`)
	personName   = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s]+$`)
	city         = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑ\s.-]+$`)
	address      = regexp.MustCompile(`^[a-zA-Z0-9áéíóúÁÉÍÓÚñÑ\s.,#-]+$`)
	postalCode   = regexp.MustCompile(`^\d{5}$`)
	cardNumber   = regexp.MustCompile(`^\d{16}$`)
	expiryFormat = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvv          = regexp.MustCompile(`^\d{3}$`)
	whitespace   = regexp.MustCompile(`\s`)
)

type nowKey struct{}

// WithNow pins the clock used by the expiry check.
func WithNow(c context.Context, now time.Time) context.Context {
	return context.WithValue(c, nowKey{}, now)
}

func nowFromContext(c context.Context) time.Time {
	if now, ok := c.Value(nowKey{}).(time.Time); ok {
		return now
	}
	return time.Now()
}

// New returns a validator with the storefront tags registered. Field names in
// validation errors are taken from the json tag.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	mustRegister(v, TagNotBlank, validators.NotBlank)
	mustRegister(v, TagTrimmedMin, trimmedMin)
	mustRegister(v, TagBasicEmail, matchString(basicEmail, false))
	mustRegister(v, TagPersonName, matchString(personName, false))
	mustRegister(v, TagCity, matchString(city, false))
	mustRegister(v, TagAddress, matchString(address, false))
	mustRegister(v, TagPostalCode, matchString(postalCode, true))
	mustRegister(v, TagExpiryFormat, matchString(expiryFormat, false))
	mustRegister(v, TagCVV, matchString(cvv, true))
	mustRegister(v, TagCardNumber, func(fl validator.FieldLevel) bool {
		return cardNumber.MatchString(whitespace.ReplaceAllString(fl.Field().String(), ""))
	})
	if err := v.RegisterValidationCtx(TagNotExpired, notExpired); err != nil {
		panic(err)
	}
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func matchString(re *regexp.Regexp, trim bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if trim {
			value = strings.TrimSpace(value)
		}
		return re.MatchString(value)
	}
}

func trimmedMin(fl validator.FieldLevel) bool {
	min, err := strconv.Atoi(fl.Param())
	if err != nil {
		panic(err)
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= min
}

// notExpired accepts MM/YY dates in the current month or later. Malformed
// values are left to expiry_format.
func notExpired(c context.Context, fl validator.FieldLevel) bool {
	month, year, ok := strings.Cut(fl.Field().String(), "/")
	if !ok {
		return true
	}
	cardMonth, err := strconv.Atoi(month)
	if err != nil {
		return true
	}
	cardYear, err := strconv.Atoi(year)
	if err != nil {
		return true
	}

	now := nowFromContext(c)
	currentYear := now.Year() % 100
	currentMonth := int(now.Month())
	return !(cardYear < currentYear || (cardYear == currentYear && cardMonth < currentMonth))
}

// FieldErrors maps each failing field to the message of its first failing
// rule. Errors that are not validation errors yield nil.
func FieldErrors(err error, messages map[string]map[string]string) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	fieldErrors := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		if _, ok := fieldErrors[fe.Field()]; ok {
			continue
		}
		fieldErrors[fe.Field()] = Message(fe, messages)
	}
	return fieldErrors
}

func Message(fe validator.FieldError, messages map[string]map[string]string) string {
	if byTag, ok := messages[fe.Field()]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			return msg
		}
	}
	switch fe.Tag() {
	case "required", TagNotBlank:
		return fe.Field() + " is required"
	case "gte", "min":
		return fe.Field() + " must be at least " + fe.Param()
	default:
		return fe.Field() + " is not valid"
	}
}
